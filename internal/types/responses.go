package types

type UserResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
	Role        string `json:"role"`
	JoinDate    string `json:"join_date"`
}

type MemberResponse struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type ProjectResponse struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CreatedBy   uint             `json:"created_by"`
	CreatorName string           `json:"creator_name,omitempty"`
	CreatedDate string           `json:"created_date"`
	MemberCount int              `json:"member_count"`
	IsMember    bool             `json:"is_member"`
	Members     []MemberResponse `json:"members"`
}

type MessageResponse struct {
	ID         uint   `json:"id"`
	ProjectID  uint   `json:"project_id"`
	SenderID   uint   `json:"sender_id"`
	SenderName string `json:"sender_name,omitempty"`
	Message    string `json:"message"`
	SentDate   string `json:"sent_date"`
}

type CommunityMemberResponse struct {
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Role        string `json:"role"`
}
