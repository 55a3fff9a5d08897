package models

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Login       string `json:"login"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsAdmin     bool   `json:"isAdmin"`
}

type BroadcastRequest struct {
	Message string `json:"message"`
}

type DeleteTokenRequest struct {
	Password string `json:"password"`
}

type DeleteTokenResponse struct {
	Token     string `json:"token"`
	ClientID  string `json:"clientId"`
	ExpiresIn int    `json:"expiresIn"`
}

type ClientEditRequest struct {
	Client Client `json:"client"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

type DependentListAction string

const (
	DependentsEnsure   DependentListAction = "ensure"
	DependentsExpand   DependentListAction = "expand"
	DependentsCollapse DependentListAction = "collapse"
	DependentsUpdate   DependentListAction = "update"
)

type DependentListRequest struct {
	Dependents []Dependent         `json:"dependents"`
	SlotCount  int                 `json:"slotCount"`
	Action     DependentListAction `json:"action"`
	Index      int                 `json:"index"`
	Field      string              `json:"field"`
	Value      string              `json:"value"`
}

type DependentListResponse struct {
	SlotCount  int         `json:"slotCount"`
	Slots      []Dependent `json:"slots"`
	Dependents []Dependent `json:"dependents"`
	Dropped    []Dependent `json:"dropped,omitempty"`
}
