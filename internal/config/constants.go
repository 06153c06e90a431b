package config

type (
	JobStatus    string
	TicketStatus string
	Priority     string
	Role         string
	Action       string
)

const (
	JobStatusQueued  JobStatus = "queued"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusFailed  JobStatus = "failed"
)

const (
	TicketStatusPending          TicketStatus = "pending"
	TicketStatusQueued           TicketStatus = "queued"
	TicketStatusInProgress       TicketStatus = "in_progress"
	TicketStatusAwaitingApproval TicketStatus = "awaiting_approval"
	TicketStatusApproved         TicketStatus = "approved"
	TicketStatusRejected         TicketStatus = "rejected"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	RoleOperator Role = "operator"
	RoleManager  Role = "manager"
)

const (
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionSendToPartner Action = "send_to_partner"
)

// DefaultMaxAttempts is the attempt budget of a freshly enqueued job and
// the amount a resend adds on top of the attempts already spent.
const DefaultMaxAttempts = 3

var (
	AllowedJobStatuses = []JobStatus{JobStatusQueued, JobStatusRunning, JobStatusDone, JobStatusFailed}

	AllowedTicketStatuses = []TicketStatus{
		TicketStatusPending,
		TicketStatusQueued,
		TicketStatusInProgress,
		TicketStatusAwaitingApproval,
		TicketStatusApproved,
		TicketStatusRejected,
	}
	AllowedPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}
	AllowedRoles      = []Role{RoleOperator, RoleManager}

	// SendableStatuses are the ticket states from which a ticket may be
	// (re)sent to its partner.
	SendableStatuses = []TicketStatus{TicketStatusPending, TicketStatusRejected}
)
