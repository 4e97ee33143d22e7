package dto

type ApplicantResponse struct {
	ID     uint   `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type ApplicationResponse struct {
	ID          uint               `json:"id"`
	ApplyingAs  string             `json:"applying_as"`
	Status      string             `json:"status"`
	ProgramID   *uint              `json:"program_id,omitempty"`
	ProgramName string             `json:"program_name,omitempty"`
	Applicant   *ApplicantResponse `json:"applicant,omitempty"`
	ReviewNotes string             `json:"review_notes,omitempty"`
	ReviewedBy  *uint              `json:"reviewed_by,omitempty"`
	ReviewedAt  *string            `json:"reviewed_at,omitempty"`
	CreatedAt   string             `json:"created_at"`
}

type EnrollmentResponse struct {
	ID             uint   `json:"id"`
	ClassID        uint   `json:"class_id"`
	ClassName      string `json:"class_name,omitempty"`
	Status         string `json:"status"`
	EnrollmentDate string `json:"enrollment_date"`
}

type AuditEntryResponse struct {
	ActorID     uint   `json:"actor_id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type ApplicationDetailResponse struct {
	ApplicationResponse
	Motivation    string                 `json:"motivation,omitempty"`
	Enrollments   []EnrollmentResponse   `json:"enrollments"`
	Notifications []NotificationResponse `json:"notifications"`
	History       []AuditEntryResponse   `json:"history"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type ApplicationListResponse struct {
	Items      []ApplicationResponse `json:"items"`
	Pagination Pagination            `json:"pagination"`
}

type ApplicationStatsResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

type NotificationResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	RelatedID *uint  `json:"related_id,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}
