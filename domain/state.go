package domain

// Config holds who may create pots and which token wallet may report deposits.
type Config struct {
	Owner     Identity `json:"owner"`
	TokenAddr Identity `json:"cw20_addr"`
}

type ContractInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

// Pot is a funding target. Collected only ever grows.
type Pot struct {
	ID         Uint128  `json:"id"`
	TargetAddr Identity `json:"target_addr"`
	Threshold  Uint128  `json:"threshold"`
	Collected  Uint128  `json:"collected"`
}

// IsFunded reports whether the pot reached its threshold.
func (p Pot) IsFunded() bool {
	return p.Collected.Cmp(p.Threshold) >= 0
}

type BackerState struct {
	Backer string  `json:"backer_wallet"`
	Amount Uint128 `json:"amount"`
}

type ProjectState struct {
	ProjectID     Uint128       `json:"project_id"`
	ProjectWallet string        `json:"project_wallet"`
	Name          string        `json:"project_name"`
	CreatorWallet string        `json:"creator_wallet"`
	Website       string        `json:"project_website"`
	About         string        `json:"project_about"`
	Email         string        `json:"project_email"`
	Ecosystem     string        `json:"project_ecosystem"`
	Category      string        `json:"project_category"`
	Collected     Uint128       `json:"project_collected"`
	Backers       []BackerState `json:"backer_states"`
}
