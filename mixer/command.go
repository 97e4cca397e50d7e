package mixer

type opcode int

const (
	opAddVoice opcode = iota
	opPause
	opResume
	opStop
	opSetVolume
	opSetPanning
	opSetRate
	opSeekTo
	opSeekBy
)

// command crosses from the control side to the render side exactly once,
// through the bounded queue.
type command struct {
	op    opcode
	voice *Voice
	value float64
	tween Tween
}
