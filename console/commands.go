package console

// Kind identifies a parsed command
type Kind uint8

const (
	None Kind = iota
	Help
	Info
	Start
	Stop
	SetSpeed
	SetDirection
	SetStepSize
	StepN
)

var kindNames = [...]string{
	None:         "none",
	Help:         "help",
	Info:         "info",
	Start:        "start",
	Stop:         "stop",
	SetSpeed:     "speed",
	SetDirection: "dir",
	SetStepSize:  "size",
	StepN:        "step",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Keyword is one entry of the command table
type Keyword struct {
	Text    string
	Kind    Kind
	TakeArg bool // capture the rest of the line as the argument
}

// keywords is matched in order and the first prefix match wins, so the
// order is part of the protocol: "step" must never shadow "stop" or "start".
var keywords = []Keyword{
	{Text: "?", Kind: Help},
	{Text: "help", Kind: Help},
	{Text: "info", Kind: Info},
	{Text: "start", Kind: Start},
	{Text: "stop", Kind: Stop},
	{Text: "speed", Kind: SetSpeed, TakeArg: true},
	{Text: "dir", Kind: SetDirection, TakeArg: true},
	{Text: "size", Kind: SetStepSize, TakeArg: true},
	{Text: "step", Kind: StepN, TakeArg: true},
}

// Keywords returns the command table in matching order
func Keywords() []Keyword {
	out := make([]Keyword, len(keywords))
	copy(out, keywords)
	return out
}

// helpText is the reference printed by "?" and "help". The wording is
// what existing terminals and scripts expect; do not reflow it.
const helpText = "Availabe commands:\r\n" +
	"?/help - displays this message\r\n" +
	"info - displays motor info\r\n" +
	"start - starts the motor\r\n" +
	"stop - stops the motor\r\n" +
	"speed [x] - sets the speed of the motor to x (3-65535)\r\n" +
	"dir [x] - sets the direction to x (\"cc\" or \"cw\")\r\n" +
	"size [x] - sets the step size to x (\"full\" or \"half)\"\r\n" +
	"step [x] - makes motor step x (1-65535) times\r\n"

// HelpText returns the static command reference
func HelpText() string {
	return helpText
}
