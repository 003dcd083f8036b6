package nosql

// Op 定义操作符的类型和行为
type Op struct {
	Name    string
	Type    OpType
	Keyword string
	// Null 比较值为 nil 时使用的关键字
	Null string
	// Single 列表只有一个元素时退化成的比较操作符
	Single string
	// Empty 列表为空时使用的恒等式
	Empty string
}

type OpType uint8

const (
	OpBinary OpType = iota // 比较运算符 e.g., =, >, <
	OpList                 // 列表运算符 e.g., IN, NOT IN
	OpRegex                // 正则匹配
)

// 保留键
const (
	keyOr  = "$or"
	keySet = "$set"
	keyInc = "$inc"
)

// 预定义操作符
var (
	opEQ    = Op{Name: "$eq", Type: OpBinary, Keyword: "=", Null: "IS NULL"}
	opNE    = Op{Name: "$ne", Type: OpBinary, Keyword: "!=", Null: "IS NOT NULL"}
	opLT    = Op{Name: "$lt", Type: OpBinary, Keyword: "<"}
	opLTE   = Op{Name: "$lte", Type: OpBinary, Keyword: "<="}
	opGT    = Op{Name: "$gt", Type: OpBinary, Keyword: ">"}
	opGTE   = Op{Name: "$gte", Type: OpBinary, Keyword: ">="}
	opIN    = Op{Name: "$in", Type: OpList, Keyword: "IN", Single: "$eq", Empty: "1 = 0"}
	opNIN   = Op{Name: "$nin", Type: OpList, Keyword: "NOT IN", Single: "$ne", Empty: "1 = 1"}
	opREGEX = Op{Name: "$regex", Type: OpRegex}
)

var operators = map[string]Op{
	opEQ.Name:    opEQ,
	opNE.Name:    opNE,
	opLT.Name:    opLT,
	opLTE.Name:   opLTE,
	opGT.Name:    opGT,
	opGTE.Name:   opGTE,
	opIN.Name:    opIN,
	opNIN.Name:   opNIN,
	opREGEX.Name: opREGEX,
}

// lookupOp 查找操作符，未知操作符返回 false
func lookupOp(name string) (Op, bool) {
	op, ok := operators[name]
	return op, ok
}
