package domain

// MessageInfo is what the host tells the ledger about a call: who sent it and how much native
// currency came with it.
type MessageInfo struct {
	Sender string
	Funds  Uint128
}

// Operation is the closed set of state-changing calls. Only types in this package implement it.
type Operation interface {
	operation()
}

// Instantiate sets up the ledger. Admin is optional; the sender becomes owner when it is missing
// or invalid.
type Instantiate struct {
	Admin     *string
	TokenAddr string
}

type CreatePot struct {
	TargetAddr string
	Threshold  Uint128
}

// Deposit is the token wallet's transfer notification for pot PotID.
type Deposit struct {
	PotID  Uint128
	Amount Uint128
}

type AddProject struct {
	ProjectID     Uint128
	ProjectWallet string
	Name          string
	CreatorWallet string
	Website       string
	About         string
	Email         string
	Ecosystem     string
	Category      string
}

// BackProject contributes the attached funds to a project.
type BackProject struct {
	ProjectID Uint128
	Backer    string
}

func (Instantiate) operation() {}
func (CreatePot) operation()   {}
func (Deposit) operation()     {}
func (AddProject) operation()  {}
func (BackProject) operation() {}

// Query is the closed set of read-only calls.
type Query interface {
	query()
}

type GetPot struct {
	ID Uint128
}

type GetProject struct {
	ID Uint128
}

func (GetPot) query()     {}
func (GetProject) query() {}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is the result of a successful operation.
type Response struct {
	Attributes   []Attribute   `json:"attributes"`
	Instructions []Instruction `json:"instructions"`
	Data         interface{}   `json:"data,omitempty"`
}

func NewResponse() *Response {
	return &Response{
		Attributes:   make([]Attribute, 0, 4),
		Instructions: make([]Instruction, 0, 1),
	}
}

func (r *Response) AddAttribute(key string, value interface{}) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: toString(value)})
	return r
}

func (r *Response) AddInstruction(instruction Instruction) *Response {
	r.Instructions = append(r.Instructions, instruction)
	return r
}

// Attribute returns the first value stored under key.
func (r *Response) Attribute(key string) (string, bool) {
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}
