package transport

// Request bodies use pointers so a missing attribute can be told apart from an empty one.

type RegisterRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type EmailRequest struct {
	Email *string `json:"email"`
}

type NameRequest struct {
	Name *string `json:"name"`
}

type CreateGroupRequest struct {
	Name         *string   `json:"name"`
	MemberEmails *[]string `json:"memberEmails"`
}

type EmailsRequest struct {
	Emails *[]string `json:"emails"`
}

type CategoryRequest struct {
	Type  *string `json:"type"`
	Color *string `json:"color"`
}

type TypesRequest struct {
	Types *[]string `json:"types"`
}

// TransactionRequest accepts the amount as a JSON number or a numeric string.
type TransactionRequest struct {
	Username *string `json:"username"`
	Type     *string `json:"type"`
	Amount   any     `json:"amount"`
}

type IDRequest struct {
	ID *string `json:"_id"`
}

type IDsRequest struct {
	IDs *[]string `json:"_ids"`
}

type LoginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Message struct {
	Message string `json:"message"`
}

type CountMessage struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type UserView struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type DeletedUser struct {
	DeletedTransactions int64 `json:"deletedTransactions"`
	DeletedFromGroup    bool  `json:"deletedFromGroup"`
}

type MemberView struct {
	Email string `json:"email"`
}

type GroupView struct {
	Name    string       `json:"name"`
	Members []MemberView `json:"members"`
}

// GroupChange reports a group after members were added, together with the
// emails that could not be added.
type GroupChange struct {
	Group           GroupView    `json:"group"`
	AlreadyInGroup  []MemberView `json:"alreadyInGroup"`
	MembersNotFound []MemberView `json:"membersNotFound"`
}

// GroupRemoval reports a group after members were removed.
type GroupRemoval struct {
	Group           GroupView    `json:"group"`
	NotInGroup      []MemberView `json:"notInGroup"`
	MembersNotFound []MemberView `json:"membersNotFound"`
}

func Members(emails []string) []MemberView {
	out := make([]MemberView, 0, len(emails))
	for _, e := range emails {
		out = append(out, MemberView{Email: e})
	}
	return out
}
