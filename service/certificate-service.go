package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"cems/app_error"
	"cems/client"
	"cems/repository"

	"gorm.io/gorm"
)

type CertificateService struct {
	db                        *gorm.DB
	teamRepository            *repository.TeamRepository
	certificateRepository     *repository.TeamCertificateRepository
	teamLeaderboardRepository *repository.TeamLeaderboardRepository
	renderer                  client.Renderer
	notifier                  client.Notifier
}

func NewCertificateService(db *gorm.DB, renderer client.Renderer, notifier client.Notifier) *CertificateService {
	return &CertificateService{
		db:                        db,
		teamRepository:            repository.NewTeamRepository(db),
		certificateRepository:     repository.NewTeamCertificateRepository(db),
		teamLeaderboardRepository: repository.NewTeamLeaderboardRepository(db),
		renderer:                  renderer,
		notifier:                  notifier,
	}
}

// GenerateTeamCertificates creates one certificate record per accepted
// member, carrying the team's current leaderboard rank when one exists.
// Repeated calls append new records with fresh certificate ids.
func (s *CertificateService) GenerateTeamCertificates(teamId int) ([]*repository.TeamCertificate, error) {
	var certificates []*repository.TeamCertificate
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teamRepository := repository.NewTeamRepository(tx)
		certificateRepository := repository.NewTeamCertificateRepository(tx)
		teamLeaderboardRepository := repository.NewTeamLeaderboardRepository(tx)

		team, err := teamRepository.GetTeamWithAcceptedMembers(teamId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return app_error.ErrTeamNotFound
			}
			return err
		}

		var rank *int
		entry, err := teamLeaderboardRepository.GetByTeam(teamId, team.EventId, team.SubeventId)
		if err == nil {
			rank = entry.Rank
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		certificates = make([]*repository.TeamCertificate, 0, len(team.Members))
		for _, member := range team.Members {
			certificateId := fmt.Sprintf("TEAM-%d-%d-%d", team.Id, member.Id, now.UnixMilli())
			certificates = append(certificates, &repository.TeamCertificate{
				TeamId:         teamId,
				MemberId:       member.Id,
				EventId:        team.EventId,
				SubeventId:     team.SubeventId,
				CertificateId:  certificateId,
				CertificateUrl: fmt.Sprintf("/certificates/team/%s.pdf", certificateId),
				Rank:           rank,
				IssuedAt:       now,
			})
		}
		return certificateRepository.CreateCertificates(certificates)
	})
	if err != nil {
		return nil, err
	}
	return certificates, nil
}

func (s *CertificateService) GetTeamCertificates(teamId int) ([]*repository.TeamCertificate, error) {
	return s.certificateRepository.GetForTeam(teamId)
}

type CertificateKind string

const (
	CertificateMerit         CertificateKind = "merit"
	CertificateParticipation CertificateKind = "participation"
)

type batchTeam struct {
	team *repository.Team
	rank *int
}

type renderedCertificate struct {
	record     *repository.TeamCertificate
	image      []byte
	fileName   string
	email      string
	memberName string
	ranked     bool
}

// GenerateBatchCertificates issues certificates for every eligible team of a
// subevent. Merit certificates go to teams on the leaderboard in declared
// rank order; participation certificates go to attendance-present teams that
// never made the leaderboard. All rendering happens before the database
// transaction and all mail is sent after it commits, so an external failure
// can never unwind recorded certificates: render errors abort before any
// write, mail errors are only logged.
func (s *CertificateService) GenerateBatchCertificates(eventId int, subeventId int, kind CertificateKind, template []byte, coordinates map[string]client.Coordinate) ([]*repository.TeamCertificate, error) {
	eventRepository := repository.NewEventRepository(s.db)
	event, err := eventRepository.GetEventById(eventId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.ErrEventNotFound
		}
		return nil, err
	}
	subevent, err := eventRepository.GetSubeventById(subeventId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.ErrSubeventNotFound
		}
		return nil, err
	}

	teams, err := s.collectCohort(eventId, subeventId, kind)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, app_error.ErrNoEligibleTeams
	}

	issuedAt := time.Now()
	rendered := make([]*renderedCertificate, 0)
	for _, candidate := range teams {
		for _, member := range candidate.team.Members {
			if member.Student == nil {
				log.Printf("member %d has no student record, skipping", member.Id)
				continue
			}
			certificateId := batchCertificateId(event, subevent, candidate.team, member, candidate.rank, issuedAt)
			fields := certificateFields(event, candidate.team, member, candidate.rank, issuedAt, certificateId)
			image, err := s.renderer.Render(template, fields, coordinates)
			if err != nil {
				return nil, err
			}
			rendered = append(rendered, &renderedCertificate{
				record: &repository.TeamCertificate{
					TeamId:         candidate.team.Id,
					MemberId:       member.Id,
					EventId:        eventId,
					SubeventId:     subeventId,
					CertificateId:  certificateId,
					CertificateUrl: fmt.Sprintf("/certificates/team/%s.jpg", certificateId),
					Rank:           candidate.rank,
					IssuedAt:       issuedAt,
				},
				image:      image,
				fileName:   certificateFileName(certificateId, candidate.team.Name, member.Student.Username),
				email:      member.Student.Email,
				memberName: member.Student.Username,
				ranked:     candidate.rank != nil,
			})
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		certificateRepository := repository.NewTeamCertificateRepository(tx)
		records := make([]*repository.TeamCertificate, 0, len(rendered))
		for _, certificate := range rendered {
			records = append(records, certificate.record)
		}
		return certificateRepository.CreateCertificates(records)
	})
	if err != nil {
		return nil, err
	}

	for _, certificate := range rendered {
		subject := fmt.Sprintf("Your %s certificate for %s", kind, event.Name)
		body := fmt.Sprintf("Dear %s,\n\nPlease find your certificate for %s attached.\n", certificate.memberName, event.Name)
		if err := s.notifier.Send(certificate.email, subject, body, certificate.image, certificate.fileName); err != nil {
			log.Printf("failed to send certificate %s to %s: %v", certificate.record.CertificateId, certificate.email, err)
		}
	}

	records := make([]*repository.TeamCertificate, 0, len(rendered))
	for _, certificate := range rendered {
		records = append(records, certificate.record)
	}
	return records, nil
}

func (s *CertificateService) collectCohort(eventId int, subeventId int, kind CertificateKind) ([]*batchTeam, error) {
	if kind == CertificateMerit {
		entries, err := s.teamLeaderboardRepository.GetForSubeventByRank(eventId, subeventId)
		if err != nil {
			return nil, err
		}
		teams := make([]*batchTeam, 0, len(entries))
		for _, entry := range entries {
			if entry.Team == nil {
				continue
			}
			teams = append(teams, &batchTeam{team: entry.Team, rank: entry.Rank})
		}
		return teams, nil
	}

	// Participation cohort: attendance-present teams absent from the
	// leaderboard.
	attendanceRepository := repository.NewTeamAttendanceRepository(s.db)
	present, err := attendanceRepository.GetPresentForSubevent(eventId, subeventId)
	if err != nil {
		return nil, err
	}
	entries, err := s.teamLeaderboardRepository.GetForSubevent(eventId, subeventId)
	if err != nil {
		return nil, err
	}
	onLeaderboard := make(map[int]bool)
	for _, entry := range entries {
		onLeaderboard[entry.TeamId] = true
	}
	teams := make([]*batchTeam, 0)
	for _, attendance := range present {
		if attendance.Team == nil || onLeaderboard[attendance.TeamId] {
			continue
		}
		teams = append(teams, &batchTeam{team: attendance.Team})
	}
	return teams, nil
}

func batchCertificateId(event *repository.Event, subevent *repository.Subevent, team *repository.Team, member *repository.TeamMember, rank *int, issuedAt time.Time) string {
	rankSuffix := ""
	if rank != nil {
		rankSuffix = fmt.Sprintf("-R%d", *rank)
	}
	return fmt.Sprintf("TEAM-%s-%s-%04d-%d%s-%s",
		namePrefix(event.Name),
		namePrefix(subevent.Title),
		team.Id,
		member.Id,
		rankSuffix,
		strconv.FormatInt(issuedAt.UnixMilli(), 36))
}

func certificateFields(event *repository.Event, team *repository.Team, member *repository.TeamMember, rank *int, issuedAt time.Time, certificateId string) map[string]string {
	fields := map[string]string{
		"teamName":      team.Name,
		"name":          member.Student.Username,
		"event":         event.Name,
		"date":          issuedAt.Format("02/01/2006"),
		"certificateId": certificateId,
		"rollNumber":    member.Student.RollNumber,
		"year":          member.Student.Year,
		"sem":           member.Student.Semester,
		"stream":        member.Student.Stream,
		"college":       member.Student.CollegeName,
	}
	if rank != nil {
		fields["rank"] = fmt.Sprintf("%d%s Place Team", *rank, rankSuffix(*rank))
	}
	return fields
}

func certificateFileName(certificateId string, teamName string, memberName string) string {
	return fmt.Sprintf("%s_%s_%s.jpg", certificateId, sanitizeName(teamName), sanitizeName(memberName))
}

func namePrefix(name string) string {
	cleaned := make([]rune, 0, 3)
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			cleaned = append(cleaned, r)
			if len(cleaned) == 3 {
				break
			}
		}
	}
	return strings.ToUpper(string(cleaned))
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return strings.ToLower(b.String())
}

func rankSuffix(rank int) string {
	if rank >= 11 && rank <= 13 {
		return "th"
	}
	switch rank % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
