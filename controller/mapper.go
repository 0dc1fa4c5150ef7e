package controller

import (
	"time"

	"cems/repository"
	"cems/utils"
)

type MemberResponse struct {
	Id        int    `json:"id"`
	StudentId int    `json:"student_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

type TeamResponse struct {
	Id         int               `json:"id"`
	Name       string            `json:"name"`
	EventId    int               `json:"event_id"`
	SubeventId int               `json:"subevent_id"`
	LeaderId   int               `json:"leader_id"`
	Members    []*MemberResponse `json:"members"`
}

type AttendanceResponse struct {
	TeamId     int           `json:"team_id"`
	EventId    int           `json:"event_id"`
	SubeventId int           `json:"subevent_id"`
	Attendance bool          `json:"attendance"`
	MarkedBy   int           `json:"marked_by"`
	MarkedAt   time.Time     `json:"marked_at"`
	Team       *TeamResponse `json:"team,omitempty"`
}

type LeaderboardEntryResponse struct {
	TeamId     int           `json:"team_id"`
	EventId    int           `json:"event_id"`
	SubeventId int           `json:"subevent_id"`
	Score      int           `json:"score"`
	Rank       *int          `json:"rank"`
	Team       *TeamResponse `json:"team,omitempty"`
}

type CertificateResponse struct {
	Id             int       `json:"id"`
	TeamId         int       `json:"team_id"`
	MemberId       int       `json:"member_id"`
	CertificateId  string    `json:"certificate_id"`
	CertificateUrl string    `json:"certificate_url"`
	Rank           *int      `json:"rank"`
	IssuedAt       time.Time `json:"issued_at"`
	Username       string    `json:"username,omitempty"`
	Email          string    `json:"email,omitempty"`
}

func toMemberResponse(member *repository.TeamMember) *MemberResponse {
	response := &MemberResponse{
		Id:        member.Id,
		StudentId: member.StudentId,
		Status:    string(member.Status),
	}
	if member.Student != nil {
		response.Username = member.Student.Username
		response.Email = member.Student.Email
	}
	return response
}

func toTeamResponse(team *repository.Team) *TeamResponse {
	return &TeamResponse{
		Id:         team.Id,
		Name:       team.Name,
		EventId:    team.EventId,
		SubeventId: team.SubeventId,
		LeaderId:   team.LeaderId,
		Members:    utils.Map(team.Members, toMemberResponse),
	}
}

func toAttendanceResponse(attendance *repository.TeamAttendance) *AttendanceResponse {
	response := &AttendanceResponse{
		TeamId:     attendance.TeamId,
		EventId:    attendance.EventId,
		SubeventId: attendance.SubeventId,
		Attendance: attendance.Attendance,
		MarkedBy:   attendance.MarkedBy,
		MarkedAt:   attendance.MarkedAt,
	}
	if attendance.Team != nil {
		response.Team = toTeamResponse(attendance.Team)
	}
	return response
}

func toLeaderboardEntryResponse(entry *repository.TeamLeaderboard) *LeaderboardEntryResponse {
	response := &LeaderboardEntryResponse{
		TeamId:     entry.TeamId,
		EventId:    entry.EventId,
		SubeventId: entry.SubeventId,
		Score:      entry.Score,
		Rank:       entry.Rank,
	}
	if entry.Team != nil {
		response.Team = toTeamResponse(entry.Team)
	}
	return response
}

func toCertificateResponse(certificate *repository.TeamCertificate) *CertificateResponse {
	response := &CertificateResponse{
		Id:             certificate.Id,
		TeamId:         certificate.TeamId,
		MemberId:       certificate.MemberId,
		CertificateId:  certificate.CertificateId,
		CertificateUrl: certificate.CertificateUrl,
		Rank:           certificate.Rank,
		IssuedAt:       certificate.IssuedAt,
	}
	if certificate.Member != nil && certificate.Member.Student != nil {
		response.Username = certificate.Member.Student.Username
		response.Email = certificate.Member.Student.Email
	}
	return response
}
