package pipeline

// Mode selects the compliance scoring regime. Relaxed rewards compliant jobs
// with small bonuses; Strict penalizes non-compliant ones instead. The same
// underlying role/contract flags drive both.
type Mode int

const (
	Relaxed Mode = iota
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "relaxed"
}
