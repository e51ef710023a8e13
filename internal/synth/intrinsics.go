package synth

// CloudFormation pseudo parameters
const (
	PseudoAccountID = "AWS::AccountId"
	PseudoRegion    = "AWS::Region"
	PseudoStackName = "AWS::StackName"
)

// Ref returns a {"Ref": name} intrinsic token.
func Ref(name string) Value {
	return map[string]any{"Ref": name}
}

// GetAtt returns a {"Fn::GetAtt": [logicalID, attribute]} intrinsic token.
func GetAtt(logicalID, attribute string) Value {
	return map[string]any{"Fn::GetAtt": []any{logicalID, attribute}}
}

// Sub returns a {"Fn::Sub": expr} intrinsic token.
func Sub(expr string) Value {
	return map[string]any{"Fn::Sub": expr}
}
