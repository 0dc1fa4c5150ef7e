package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cems/config"
)

// Coordinate is a pixel position on the certificate template.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RenderRequest is the payload for the certificate render service: a
// template image plus the text fields and where to place them.
type RenderRequest struct {
	Template    string                `json:"template"`
	Fields      map[string]string     `json:"fields"`
	Coordinates map[string]Coordinate `json:"coordinates"`
}

// Renderer composites certificate text onto a template image.
type Renderer interface {
	Render(template []byte, fields map[string]string, coordinates map[string]Coordinate) ([]byte, error)
}

type RendererClient struct {
	baseUrl string
	client  *http.Client
}

func NewRendererClient() *RendererClient {
	return &RendererClient{
		baseUrl: config.Env().RendererURL,
		client:  &http.Client{},
	}
}

func (c *RendererClient) Render(template []byte, fields map[string]string, coordinates map[string]Coordinate) ([]byte, error) {
	payload := RenderRequest{
		Template:    base64.StdEncoding.EncodeToString(template),
		Fields:      fields,
		Coordinates: coordinates,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequest("POST", c.baseUrl+"/render", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := c.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("renderer returned status %d", response.StatusCode)
	}
	return io.ReadAll(response.Body)
}
