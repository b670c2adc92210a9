package arithsvc

// Method names served by Register.
const (
	MethodSum  = "sum"
	MethodDiff = "diff"
	MethodMult = "mult"
	MethodDiv  = "div"
)

// Methods lists every method registered by Register.
var Methods = []string{MethodSum, MethodDiff, MethodMult, MethodDiv}

// Operands are the params of sum, diff and mult.
// div takes an arith.DivInput.
type Operands struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Result is the reply of every method.
type Result struct {
	Result float64 `json:"result"`
}
