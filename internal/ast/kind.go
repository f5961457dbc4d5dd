package ast

import "fmt"

// Kind is the closed set of node kinds, one per grammar production.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindTranslationUnit
	KindFunctionDefinition
	KindFunctionPrototype
	KindParameterDeclaration
	KindDeclaratorList
	KindDeclarator
	KindFullType
	KindTypeSpecifier
	KindStructSpecifier
	KindStructDeclarationList
	KindStructDeclaration
	KindStructDeclarator
	KindPrecisionDeclaration
	KindInvariantDeclaration
	KindCompoundStatement
	KindExpressionStatement
	KindSelectionStatement
	KindForStatement
	KindWhileStatement
	KindDoStatement
	KindJumpStatement
	KindExpressionList
	KindAssignment
	KindConditional
	KindBinary
	KindUnary
	KindFunctionCall
	KindConstructor
	KindIndex
	KindFieldSelection
	KindIdentifier
	KindLiteral
	KindArraySize
	KindInitializer

	kindCount
)

// Class groups kinds by grammatical role.
type Class uint8

const (
	ClassOther Class = iota
	ClassDeclaration
	ClassStatement
	ClassExpression
	ClassType
)

type kindInfo struct {
	name string
	// collection kinds own child slots; leaves never do
	collection bool
	// scope kinds receive a scope id during pre-verify
	scope bool
	class Class
	// fixed is the number of positional slots; -1 means a variadic list
	fixed int
}

var kindInfos = [kindCount]kindInfo{
	KindInvalid:               {name: "Invalid"},
	KindTranslationUnit:       {name: "TranslationUnit", collection: true, fixed: -1},
	KindFunctionDefinition:    {name: "FunctionDefinition", collection: true, class: ClassDeclaration, fixed: 2},
	KindFunctionPrototype:     {name: "FunctionPrototype", collection: true, class: ClassDeclaration, fixed: -1},
	KindParameterDeclaration:  {name: "ParameterDeclaration", collection: true, class: ClassDeclaration, fixed: 2},
	KindDeclaratorList:        {name: "DeclaratorList", collection: true, class: ClassDeclaration, fixed: -1},
	KindDeclarator:            {name: "Declarator", collection: true, class: ClassDeclaration, fixed: 2},
	KindFullType:              {name: "FullType", collection: true, class: ClassType, fixed: 1},
	KindTypeSpecifier:         {name: "TypeSpecifier", collection: true, class: ClassType, fixed: 1},
	KindStructSpecifier:       {name: "StructSpecifier", collection: true, class: ClassType, fixed: 1},
	KindStructDeclarationList: {name: "StructDeclarationList", collection: true, scope: true, class: ClassType, fixed: -1},
	KindStructDeclaration:     {name: "StructDeclaration", collection: true, class: ClassType, fixed: -1},
	KindStructDeclarator:      {name: "StructDeclarator", collection: true, class: ClassType, fixed: 1},
	KindPrecisionDeclaration:  {name: "PrecisionDeclaration", collection: true, class: ClassDeclaration, fixed: 1},
	KindInvariantDeclaration:  {name: "InvariantDeclaration", collection: true, class: ClassDeclaration, fixed: -1},
	KindCompoundStatement:     {name: "CompoundStatement", collection: true, scope: true, class: ClassStatement, fixed: -1},
	KindExpressionStatement:   {name: "ExpressionStatement", collection: true, class: ClassStatement, fixed: 1},
	KindSelectionStatement:    {name: "SelectionStatement", collection: true, class: ClassStatement, fixed: 3},
	KindForStatement:          {name: "ForStatement", collection: true, scope: true, class: ClassStatement, fixed: 4},
	KindWhileStatement:        {name: "WhileStatement", collection: true, class: ClassStatement, fixed: 2},
	KindDoStatement:           {name: "DoStatement", collection: true, class: ClassStatement, fixed: 2},
	KindJumpStatement:         {name: "JumpStatement", collection: true, class: ClassStatement, fixed: 1},
	KindExpressionList:        {name: "ExpressionList", collection: true, class: ClassExpression, fixed: -1},
	KindAssignment:            {name: "Assignment", collection: true, class: ClassExpression, fixed: 2},
	KindConditional:           {name: "Conditional", collection: true, class: ClassExpression, fixed: 3},
	KindBinary:                {name: "Binary", collection: true, class: ClassExpression, fixed: 2},
	KindUnary:                 {name: "Unary", collection: true, class: ClassExpression, fixed: 1},
	KindFunctionCall:          {name: "FunctionCall", collection: true, class: ClassExpression, fixed: -1},
	KindConstructor:           {name: "Constructor", collection: true, class: ClassExpression, fixed: -1},
	KindIndex:                 {name: "Index", collection: true, class: ClassExpression, fixed: 2},
	KindFieldSelection:        {name: "FieldSelection", collection: true, class: ClassExpression, fixed: 1},
	KindIdentifier:            {name: "Identifier", class: ClassExpression},
	KindLiteral:               {name: "Literal", class: ClassExpression},
	KindArraySize:             {name: "ArraySize", collection: true, class: ClassType, fixed: 1},
	KindInitializer:           {name: "Initializer", collection: true, fixed: 1},
}

func (k Kind) info() *kindInfo {
	if k >= kindCount {
		return &kindInfos[KindInvalid]
	}
	return &kindInfos[k]
}

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindInfos[k].name
}

// IsCollection reports whether nodes of this kind own child slots.
func (k Kind) IsCollection() bool { return k.info().collection }

// IntroducesScope reports whether nodes of this kind get a scope id.
func (k Kind) IntroducesScope() bool { return k.info().scope }

// Class returns the grammatical class of k.
func (k Kind) Class() Class { return k.info().class }

// IsExpression reports expression kinds.
func (k Kind) IsExpression() bool { return k.info().class == ClassExpression }

// IsStatement reports statement kinds. Declarations inside function bodies
// (DeclaratorList) also occupy statement positions.
func (k Kind) IsStatement() bool {
	return k.info().class == ClassStatement || k == KindDeclaratorList
}

// IsLoop reports iteration statements.
func (k Kind) IsLoop() bool {
	return k == KindForStatement || k == KindWhileStatement || k == KindDoStatement
}

// Positional slot indices. Variadic kinds put their fixed prefix first.
const (
	FuncDefPrototype = 0
	FuncDefBody      = 1

	ProtoReturn      = 0 // FullType; parameters follow
	ProtoFirstParam  = 1
	ParamType        = 0 // FullType
	ParamArraySize   = 1
	DeclListType     = 0 // FullType; declarators follow
	DeclListFirst    = 1
	DeclArraySize    = 0
	DeclInitializer  = 1
	FullTypeSpec     = 0
	TypeSpecStruct   = 0
	StructSpecList   = 0
	StructDeclType   = 0 // TypeSpecifier; declarators follow
	StructDeclFirst  = 1
	StructDeclrArray = 0
	PrecisionType    = 0

	ExprStmtExpr = 0
	SelCond      = 0
	SelThen      = 1
	SelElse      = 2
	ForInit      = 0
	ForCond      = 1
	ForIter      = 2
	ForBody      = 3
	WhileCond    = 0
	WhileBody    = 1
	DoBody       = 0
	DoCond       = 1
	JumpValue    = 0

	AssignLHS    = 0
	AssignRHS    = 1
	CondTest     = 0
	CondTrue     = 1
	CondFalse    = 2
	BinaryLeft   = 0
	BinaryRight  = 1
	UnaryOperand = 0
	CtorType     = 0 // TypeSpecifier; arguments follow
	CtorFirstArg = 1
	IndexBase    = 0
	IndexExpr    = 1
	FieldBase    = 0
	ArraySizeExp = 0
	InitExpr     = 0
)
