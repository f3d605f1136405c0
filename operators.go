package fonttools

import "fmt"

// Operator keys are the operator byte for one-byte operators and 256 plus the second byte for escaped (12 b1) operators.
const escapeByte = 12

var type2Operators = map[int]string{
	1:        "hstem",
	3:        "vstem",
	4:        "vmoveto",
	5:        "rlineto",
	6:        "hlineto",
	7:        "vlineto",
	8:        "rrcurveto",
	10:       "callsubr",
	11:       "return",
	14:       "endchar",
	16:       "blend",
	18:       "hstemhm",
	19:       "hintmask",
	20:       "cntrmask",
	21:       "rmoveto",
	22:       "hmoveto",
	23:       "vstemhm",
	24:       "rcurveline",
	25:       "rlinecurve",
	26:       "vvcurveto",
	27:       "hhcurveto",
	29:       "callgsubr",
	30:       "vhcurveto",
	31:       "hvcurveto",
	256 + 3:  "and",
	256 + 4:  "or",
	256 + 5:  "not",
	256 + 8:  "store",
	256 + 9:  "abs",
	256 + 10: "add",
	256 + 11: "sub",
	256 + 12: "div",
	256 + 13: "load",
	256 + 14: "neg",
	256 + 15: "eq",
	256 + 18: "drop",
	256 + 20: "put",
	256 + 21: "get",
	256 + 22: "ifelse",
	256 + 23: "random",
	256 + 24: "mul",
	256 + 26: "sqrt",
	256 + 27: "dup",
	256 + 28: "exch",
	256 + 29: "index",
	256 + 30: "roll",
	256 + 34: "hflex",
	256 + 35: "flex",
	256 + 36: "hflex1",
	256 + 37: "flex1",
}

var type1Operators = map[int]string{
	1:        "hstem",
	3:        "vstem",
	4:        "vmoveto",
	5:        "rlineto",
	6:        "hlineto",
	7:        "vlineto",
	8:        "rrcurveto",
	9:        "closepath",
	10:       "callsubr",
	11:       "return",
	13:       "hsbw",
	14:       "endchar",
	21:       "rmoveto",
	22:       "hmoveto",
	30:       "vhcurveto",
	31:       "hvcurveto",
	256 + 0:  "dotsection",
	256 + 1:  "vstem3",
	256 + 2:  "hstem3",
	256 + 6:  "seac",
	256 + 7:  "sbw",
	256 + 12: "div",
	256 + 16: "callothersubr",
	256 + 17: "pop",
	256 + 33: "setcurrentpoint",
}

// ArgType is the argument type of a DICT operator.
type ArgType int

// see ArgType
const (
	ArgNumber ArgType = iota // single number
	ArgSID                   // string ID resolved through the string table
	ArgArray                 // all operands on the stack
)

type dictOperator struct {
	name string
	args []ArgType
}

var topDictOperators = map[int]dictOperator{
	0:        {"version", []ArgType{ArgSID}},
	1:        {"Notice", []ArgType{ArgSID}},
	2:        {"FullName", []ArgType{ArgSID}},
	3:        {"FamilyName", []ArgType{ArgSID}},
	4:        {"Weight", []ArgType{ArgSID}},
	5:        {"FontBBox", []ArgType{ArgArray}},
	13:       {"UniqueID", []ArgType{ArgNumber}},
	14:       {"XUID", []ArgType{ArgArray}},
	15:       {"charset", []ArgType{ArgNumber}},
	16:       {"Encoding", []ArgType{ArgNumber}},
	17:       {"CharStrings", []ArgType{ArgNumber}},
	18:       {"Private", []ArgType{ArgNumber, ArgNumber}},
	256 + 0:  {"Copyright", []ArgType{ArgSID}},
	256 + 1:  {"isFixedPitch", []ArgType{ArgNumber}},
	256 + 2:  {"ItalicAngle", []ArgType{ArgNumber}},
	256 + 3:  {"UnderlinePosition", []ArgType{ArgNumber}},
	256 + 4:  {"UnderlineThickness", []ArgType{ArgNumber}},
	256 + 5:  {"PaintType", []ArgType{ArgNumber}},
	256 + 6:  {"CharstringType", []ArgType{ArgNumber}},
	256 + 7:  {"FontMatrix", []ArgType{ArgArray}},
	256 + 8:  {"StrokeWidth", []ArgType{ArgNumber}},
	256 + 20: {"SyntheticBase", []ArgType{ArgNumber}},
	256 + 21: {"PostScript", []ArgType{ArgSID}},
	256 + 22: {"BaseFontName", []ArgType{ArgSID}},
	256 + 30: {"ROS", []ArgType{ArgSID, ArgSID, ArgNumber}},
	256 + 31: {"CIDFontVersion", []ArgType{ArgNumber}},
	256 + 32: {"CIDFontRevision", []ArgType{ArgNumber}},
	256 + 33: {"CIDFontType", []ArgType{ArgNumber}},
	256 + 34: {"CIDCount", []ArgType{ArgNumber}},
	256 + 35: {"UIDBase", []ArgType{ArgNumber}},
	256 + 36: {"FDArray", []ArgType{ArgNumber}},
	256 + 37: {"FDSelect", []ArgType{ArgNumber}},
	256 + 38: {"FontName", []ArgType{ArgSID}},
}

var topDictDefaults = map[string]any{
	"isFixedPitch":       Int(0),
	"ItalicAngle":        Int(0),
	"UnderlineThickness": Int(50),
	"PaintType":          Int(0),
	"CharstringType":     Int(2),
	"FontMatrix":         []Number{Real(0.001), Int(0), Int(0), Real(0.001), Int(0), Int(0)},
	"FontBBox":           []Number{Int(0), Int(0), Int(0), Int(0)},
	"StrokeWidth":        Int(0),
	"charset":            Int(0),
	"Encoding":           Int(0),
	"CIDFontVersion":     Int(0),
	"CIDFontRevision":    Int(0),
	"CIDFontType":        Int(0),
	"CIDCount":           Int(8720),
}

var privateDictOperators = map[int]dictOperator{
	6:        {"BlueValues", []ArgType{ArgArray}},
	7:        {"OtherBlues", []ArgType{ArgArray}},
	8:        {"FamilyBlues", []ArgType{ArgArray}},
	9:        {"FamilyOtherBlues", []ArgType{ArgArray}},
	10:       {"StdHW", []ArgType{ArgNumber}},
	11:       {"StdVW", []ArgType{ArgNumber}},
	19:       {"Subrs", []ArgType{ArgNumber}},
	20:       {"defaultWidthX", []ArgType{ArgNumber}},
	21:       {"nominalWidthX", []ArgType{ArgNumber}},
	256 + 9:  {"BlueScale", []ArgType{ArgNumber}},
	256 + 10: {"BlueShift", []ArgType{ArgNumber}},
	256 + 11: {"BlueFuzz", []ArgType{ArgNumber}},
	256 + 12: {"StemSnapH", []ArgType{ArgArray}},
	256 + 13: {"StemSnapV", []ArgType{ArgArray}},
	256 + 14: {"ForceBold", []ArgType{ArgNumber}},
	256 + 15: {"ForceBoldThreshold", []ArgType{ArgNumber}},
	256 + 16: {"lenIV", []ArgType{ArgNumber}},
	256 + 17: {"LanguageGroup", []ArgType{ArgNumber}},
	256 + 18: {"ExpansionFactor", []ArgType{ArgNumber}},
	256 + 19: {"initialRandomSeed", []ArgType{ArgNumber}},
}

var privateDictDefaults = map[string]any{
	"defaultWidthX":      Int(0),
	"nominalWidthX":      Int(0),
	"BlueScale":          Real(0.039625),
	"BlueShift":          Int(7),
	"BlueFuzz":           Int(1),
	"ForceBold":          Int(0),
	"ForceBoldThreshold": Int(0),
	"lenIV":              Int(-1),
	"LanguageGroup":      Int(0),
	"ExpansionFactor":    Real(0.06),
	"initialRandomSeed":  Int(0),
}

var (
	type2OperatorKeys   = reverseOperators(type2Operators)
	type1OperatorKeys   = reverseOperators(type1Operators)
	topDictOperatorKeys = reverseDictOperators(topDictOperators)
	privateOperatorKeys = reverseDictOperators(privateDictOperators)
)

func reverseOperators(ops map[int]string) map[string]int {
	keys := make(map[string]int, len(ops))
	for key, name := range ops {
		keys[name] = key
	}
	return keys
}

func reverseDictOperators(ops map[int]dictOperator) map[string]int {
	keys := make(map[string]int, len(ops))
	for key, op := range ops {
		keys[op.name] = key
	}
	return keys
}

// readOperatorKey reads the key of the operator starting with b0, with pos pointing to the byte after b0.
func readOperatorKey(b0 byte, data []byte, pos int) (int, int, error) {
	if b0 != escapeByte {
		return int(b0), pos, nil
	} else if len(data) <= pos {
		return 0, pos, fmt.Errorf("%w: truncated escape", ErrUnknownOperator)
	}
	return 256 + int(data[pos]), pos + 1, nil
}

// readOperator reads the operator starting with b0, with pos pointing to the byte after b0.
func readOperator(ops map[int]string, b0 byte, data []byte, pos int) (string, int, error) {
	key, pos, err := readOperatorKey(b0, data, pos)
	if err != nil {
		return "", pos, err
	}
	name, ok := ops[key]
	if !ok {
		return "", pos, fmt.Errorf("%w: %s", ErrUnknownOperator, operatorKeyString(key))
	}
	return name, pos, nil
}

func operatorKeyString(key int) string {
	if 256 <= key {
		return fmt.Sprintf("12 %d", key-256)
	}
	return fmt.Sprintf("%d", key)
}
