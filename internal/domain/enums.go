package domain

// RecordStatus is the active/inactive switch shared by clients, cost centers
// and rates.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusInactive RecordStatus = "inactive"
)

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

type UserStatus string

const (
	UserInvited  UserStatus = "invited"
	UserActive   UserStatus = "active"
	UserDisabled UserStatus = "disabled"
)

type RateUnit string

const (
	UnitHour  RateUnit = "hour"
	UnitDay   RateUnit = "day"
	UnitFixed RateUnit = "fixed"
)

// Ordered status sets. The first entry is the default for new records.
var (
	RecordStatuses  = []string{string(StatusActive), string(StatusInactive)}
	ProjectStatuses = []string{
		string(ProjectPlanning), string(ProjectActive), string(ProjectOnHold),
		string(ProjectCompleted), string(ProjectCancelled),
	}
	UserStatuses = []string{string(UserInvited), string(UserActive), string(UserDisabled)}
	RateUnits    = []string{string(UnitHour), string(UnitDay), string(UnitFixed)}
)
