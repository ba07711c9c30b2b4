package types

// BuiltinPrefix qualifies the names of built-in functions, which are called
// as ifj.name in source.
const BuiltinPrefix = "ifj."

// Builtins lists the built-in function catalog.
var Builtins = []*FuncDef{
	{Name: "ifj.readstr", Return: U8, NullableReturn: true},
	{Name: "ifj.readi32", Return: I32, NullableReturn: true},
	{Name: "ifj.readf64", Return: F64, NullableReturn: true},
	{Name: "ifj.write", Params: []Param{{Name: "term", Type: Undefined, Nullable: true}}, Return: Void},
	{Name: "ifj.i2f", Params: []Param{{Name: "term", Type: I32}}, Return: F64},
	{Name: "ifj.f2i", Params: []Param{{Name: "term", Type: F64}}, Return: I32},
	{Name: "ifj.string", Params: []Param{{Name: "term", Type: Undefined}}, Return: U8},
	{Name: "ifj.length", Params: []Param{{Name: "s", Type: U8}}, Return: I32},
	{Name: "ifj.concat", Params: []Param{{Name: "s1", Type: U8}, {Name: "s2", Type: U8}}, Return: U8},
	{
		Name:           "ifj.substring",
		Params:         []Param{{Name: "s", Type: U8}, {Name: "i", Type: I32}, {Name: "j", Type: I32}},
		Return:         U8,
		NullableReturn: true,
	},
	{Name: "ifj.strcmp", Params: []Param{{Name: "s1", Type: U8}, {Name: "s2", Type: U8}}, Return: I32},
	{Name: "ifj.ord", Params: []Param{{Name: "s", Type: U8}, {Name: "i", Type: I32}}, Return: I32},
	{Name: "ifj.chr", Params: []Param{{Name: "i", Type: I32}}, Return: U8},
}

func init() {
	for _, f := range Builtins {
		f.Builtin = true
	}
}

// IsBuiltinName reports whether name refers to a built-in function.
func IsBuiltinName(name string) bool {
	return len(name) > len(BuiltinPrefix) && name[:len(BuiltinPrefix)] == BuiltinPrefix
}
