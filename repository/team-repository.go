package repository

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberAccepted MemberStatus = "accepted"
	MemberRejected MemberStatus = "rejected"
)

type Team struct {
	Id         int           `gorm:"primaryKey"`
	Name       string        `gorm:"not null;unique"`
	EventId    int           `gorm:"not null;index"`
	SubeventId int           `gorm:"not null;index"`
	LeaderId   int           `gorm:"not null"`
	CreatedAt  time.Time     `gorm:"not null;autoCreateTime"`
	Members    []*TeamMember `gorm:"foreignKey:TeamId;constraint:OnDelete:CASCADE"`
}

type TeamMember struct {
	Id        int          `gorm:"primaryKey"`
	TeamId    int          `gorm:"not null;index"`
	StudentId int          `gorm:"not null;index"`
	Status    MemberStatus `gorm:"not null;default:'pending';type:cems.member_status"`
	JoinedAt  time.Time    `gorm:"not null;autoCreateTime"`
	Team      *Team        `gorm:"foreignKey:TeamId"`
	Student   *User        `gorm:"foreignKey:StudentId"`
}

type TeamRepository struct {
	DB *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{DB: db}
}

func (r *TeamRepository) Create(team *Team) (*Team, error) {
	result := r.DB.Create(team)
	if result.Error != nil {
		return nil, result.Error
	}
	return team, nil
}

func (r *TeamRepository) GetTeamById(teamId int) (*Team, error) {
	var team Team
	result := r.DB.First(&team, teamId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &team, nil
}

func (r *TeamRepository) GetTeamByName(name string) (*Team, error) {
	var team Team
	result := r.DB.First(&team, "name = ?", name)
	if result.Error != nil {
		return nil, result.Error
	}
	return &team, nil
}

// GetTeamWithAcceptedMembers loads a team with its accepted roster and each
// member's student profile.
func (r *TeamRepository) GetTeamWithAcceptedMembers(teamId int) (*Team, error) {
	var team Team
	result := r.DB.
		Preload("Members", "status = ?", MemberAccepted).
		Preload("Members.Student").
		First(&team, teamId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &team, nil
}

func (r *TeamRepository) SearchTeams(eventId int, subeventId int, search string) ([]*Team, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("SearchTeams"))
	defer timer.ObserveDuration()
	teams := make([]*Team, 0)
	query := r.DB.
		Preload("Members", "status = ?", MemberAccepted).
		Preload("Members.Student").
		Where("event_id = ? AND subevent_id = ?", eventId, subeventId)
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	result := query.Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}
	return teams, nil
}

func (r *TeamRepository) GetTeamsByLeader(leaderId int) ([]*Team, error) {
	teams := make([]*Team, 0)
	result := r.DB.Find(&teams, "leader_id = ?", leaderId)
	if result.Error != nil {
		return nil, result.Error
	}
	return teams, nil
}

func (r *TeamRepository) CreateMember(member *TeamMember) (*TeamMember, error) {
	result := r.DB.Create(member)
	if result.Error != nil {
		return nil, result.Error
	}
	return member, nil
}

// GetMemberById loads a join request together with its team.
func (r *TeamRepository) GetMemberById(memberId int) (*TeamMember, error) {
	var member TeamMember
	result := r.DB.Preload("Team").First(&member, memberId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &member, nil
}

// GetPendingRequestForStudent returns the student's pending request across
// all teams, if any. At most one can exist at a time.
func (r *TeamRepository) GetPendingRequestForStudent(studentId int) (*TeamMember, error) {
	var member TeamMember
	result := r.DB.First(&member, "student_id = ? AND status = ?", studentId, MemberPending)
	if result.Error != nil {
		return nil, result.Error
	}
	return &member, nil
}

// GetAcceptedMembership finds an accepted membership for the student in any
// team of the given (event, subevent) pair. excludeTeamId skips one team,
// used when re-validating exclusivity during acceptance; pass 0 to search
// all teams.
func (r *TeamRepository) GetAcceptedMembership(studentId int, eventId int, subeventId int, excludeTeamId int) (*TeamMember, error) {
	var member TeamMember
	query := r.DB.
		Joins("JOIN cems.teams ON teams.id = team_members.team_id").
		Where("team_members.student_id = ? AND team_members.status = ?", studentId, MemberAccepted).
		Where("teams.event_id = ? AND teams.subevent_id = ?", eventId, subeventId)
	if excludeTeamId != 0 {
		query = query.Where("teams.id <> ?", excludeTeamId)
	}
	result := query.First(&member)
	if result.Error != nil {
		return nil, result.Error
	}
	return &member, nil
}

func (r *TeamRepository) CountAcceptedMembers(teamId int) (int64, error) {
	var count int64
	result := r.DB.Model(&TeamMember{}).
		Where("team_id = ? AND status = ?", teamId, MemberAccepted).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (r *TeamRepository) GetAcceptedMembers(teamId int) ([]*TeamMember, error) {
	members := make([]*TeamMember, 0)
	result := r.DB.Preload("Student").
		Find(&members, "team_id = ? AND status = ?", teamId, MemberAccepted)
	if result.Error != nil {
		return nil, result.Error
	}
	return members, nil
}

func (r *TeamRepository) UpdateMemberStatus(member *TeamMember, status MemberStatus) (*TeamMember, error) {
	result := r.DB.Model(member).Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	return member, nil
}

// RejectOtherPendingRequests cleans up every other pending request the
// student holds, enforcing the single-engagement rule at acceptance time.
func (r *TeamRepository) RejectOtherPendingRequests(studentId int, exceptRequestId int) error {
	result := r.DB.Model(&TeamMember{}).
		Where("student_id = ? AND status = ? AND id <> ?", studentId, MemberPending, exceptRequestId).
		Update("status", MemberRejected)
	return result.Error
}

// GetPendingRequestsForTeams returns pending requests targeting any of the
// given teams, with the team attached. Student profiles are batch-loaded by
// the caller.
func (r *TeamRepository) GetPendingRequestsForTeams(teamIds []int) ([]*TeamMember, error) {
	requests := make([]*TeamMember, 0)
	result := r.DB.Preload("Team").
		Find(&requests, "team_id in ? AND status = ?", teamIds, MemberPending)
	if result.Error != nil {
		return nil, result.Error
	}
	return requests, nil
}

// GetMembershipsForStudent returns every membership row the student holds in
// teams of the (event, subevent) pair, regardless of status.
func (r *TeamRepository) GetMembershipsForStudent(studentId int, eventId int, subeventId int) ([]*TeamMember, error) {
	memberships := make([]*TeamMember, 0)
	result := r.DB.
		Joins("JOIN cems.teams ON teams.id = team_members.team_id").
		Where("team_members.student_id = ?", studentId).
		Where("teams.event_id = ? AND teams.subevent_id = ?", eventId, subeventId).
		Find(&memberships)
	if result.Error != nil {
		return nil, result.Error
	}
	return memberships, nil
}

// GetTeamForMember finds the team in the (event, subevent) pair where the
// student holds an accepted membership.
func (r *TeamRepository) GetTeamForMember(studentId int, eventId int, subeventId int) (*Team, error) {
	var team Team
	result := r.DB.
		Joins("JOIN cems.team_members ON team_members.team_id = teams.id").
		Where("team_members.student_id = ? AND team_members.status = ?", studentId, MemberAccepted).
		Where("teams.event_id = ? AND teams.subevent_id = ?", eventId, subeventId).
		First(&team)
	if result.Error != nil {
		return nil, result.Error
	}
	return &team, nil
}
