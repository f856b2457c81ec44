package mi18n

// メッセージID一覧
const (
	ReadInput     = "ReadInput"
	InputArrays   = "InputArrays"
	OutputArrays  = "OutputArrays"
	ArrayShape    = "ArrayShape"
	Dimensions    = "Dimensions"
	DetectedHands = "DetectedHands"
	HandEntry     = "HandEntry"
	SideRight     = "SideRight"
	SideLeft      = "SideLeft"
	SaveOutput    = "SaveOutput"
	SaveBatch     = "SaveBatch"
	ConvertDone   = "ConvertDone"
	NoteHands     = "NoteHands"
	NoteOrient    = "NoteOrient"
	NoteBody      = "NoteBody"
	NoteMulti     = "NoteMulti"

	BatchDir        = "BatchDir"
	BatchFound      = "BatchFound"
	BatchProcessing = "BatchProcessing"
	BatchFailed     = "BatchFailed"
	BatchSummary    = "BatchSummary"

	ConvertFailed = "ConvertFailed"
	CommandFailed = "CommandFailed"
	VerifyPassed  = "VerifyPassed"
	VerifyFailed  = "VerifyFailed"
)
