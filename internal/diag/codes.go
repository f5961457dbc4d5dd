package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                   Code = 1000
	LexUnknownChar            Code = 1001
	LexBadNumber              Code = 1002
	LexUnterminatedComment    Code = 1003
	LexNonASCIIOutsideComment Code = 1004

	// Синтаксис
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectExpression Code = 2004
	SynExpectType       Code = 2005
	SynUnclosedParen    Code = 2006
	SynUnclosedBrace    Code = 2007
	SynUnclosedBracket  Code = 2008
	SynReservedWord     Code = 2009
	SynUnsupported      Code = 2010

	// Препроцессор
	PreInfo               Code = 2500
	PreInvalidDirective   Code = 2501
	PreVersionNotFirst    Code = 2502
	PreUnsupportedVersion Code = 2503
	PreUnknownExtension   Code = 2504
	PreInvalidBehavior    Code = 2505
	PreMacroRedefined     Code = 2506
	PreMacroArgs          Code = 2507
	PreUnterminatedIf     Code = 2508
	PreUnexpectedElse     Code = 2509
	PreErrorDirective     Code = 2510
	PreInvalidExpression  Code = 2511
	PreInvalidLine        Code = 2512
	PreExtensionWarning   Code = 2513
	PreReservedMacroName  Code = 2514
	PreExtensionAfterCode Code = 2515

	// Семантические
	SemaInfo                 Code = 3000
	SemaUndeclaredIdentifier Code = 3001
	SemaRedeclaration        Code = 3002
	SemaTypeMismatch         Code = 3003
	SemaInvalidOperands      Code = 3004
	SemaInvalidUnaryOperand  Code = 3005
	SemaReservedOperator     Code = 3006
	SemaNotLValue            Code = 3007
	SemaConstNotConstant     Code = 3008
	SemaConstMissingInit     Code = 3009
	SemaConditionNotBool     Code = 3010
	SemaTernaryTypeMismatch  Code = 3011
	SemaTernaryOperandType   Code = 3012
	SemaNoMatchingFunction   Code = 3013
	SemaFunctionRedefined    Code = 3014
	SemaMissingMain          Code = 3015
	SemaInvalidMain          Code = 3016
	SemaConstructorArgs      Code = 3017
	SemaIndexNotInt          Code = 3018
	SemaIndexOutOfRange      Code = 3019
	SemaNotIndexable         Code = 3020
	SemaInvalidSwizzle       Code = 3021
	SemaNoSuchField          Code = 3022
	SemaQualifierScope       Code = 3023
	SemaAttributeStage       Code = 3024
	SemaAttributeType        Code = 3025
	SemaVaryingType          Code = 3026
	SemaQualifierInitializer Code = 3027
	SemaArraySize            Code = 3028
	SemaBreakOutsideLoop     Code = 3029
	SemaReturnType           Code = 3030
	SemaDiscardInVertex      Code = 3031
	SemaExtensionDisabled    Code = 3032
	SemaTooManyVaryings      Code = 3033
	SemaPrecisionType        Code = 3034
	SemaInvariantTarget      Code = 3035
	SemaVoidVariable         Code = 3036
	SemaFunctionDeclMismatch Code = 3037
	SemaStructInvalid        Code = 3038
	SemaSamplerMisuse        Code = 3039
	SemaNotAFunction         Code = 3040
	SemaRecursion            Code = 3041
	SemaMissingPrecision     Code = 3042
	SemaFunctionNotDefined   Code = 3043
	SemaArrayMisuse          Code = 3044
	SemaReservedName         Code = 3045
	SemaNotAVariable         Code = 3046

	// Форма цикла for
	LoopInfo             Code = 4000
	LoopInvalidInit      Code = 4001
	LoopInvalidCondition Code = 4002
	LoopInvalidIteration Code = 4003
	LoopIndexWritten     Code = 4004
	LoopUnbounded        Code = 4005

	// Линковка стадий
	LinkInfo              Code = 5000
	LinkTypeMismatch      Code = 5001
	LinkNotVertexDeclared Code = 5002
	LinkBudgetExceeded    Code = 5003

	IOLoadFileError Code = 6001

	InternalFailure Code = 9001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:               "Unknown error",
		LexInfo:                   "Lexical information",
		LexUnknownChar:            "Unknown character",
		LexBadNumber:              "Malformed numeric literal",
		LexUnterminatedComment:    "Unterminated block comment",
		LexNonASCIIOutsideComment: "Non-ASCII character outside a comment",
		SynInfo:                   "Syntax information",
		SynUnexpectedToken:        "Unexpected token",
		SynExpectSemicolon:        "Expected ';'",
		SynExpectIdentifier:       "Expected identifier",
		SynExpectExpression:       "Expected expression",
		SynExpectType:             "Expected type",
		SynUnclosedParen:          "Unclosed parenthesis",
		SynUnclosedBrace:          "Unclosed brace",
		SynUnclosedBracket:        "Unclosed bracket",
		SynReservedWord:           "Reserved word",
		SynUnsupported:            "Unsupported language construct",
		PreInfo:                   "Preprocessor information",
		PreInvalidDirective:       "Invalid preprocessor directive",
		PreVersionNotFirst:        "#version must be the first directive",
		PreUnsupportedVersion:     "Unsupported #version",
		PreUnknownExtension:       "Extension not supported",
		PreInvalidBehavior:        "Invalid extension behavior",
		PreMacroRedefined:         "Macro redefined",
		PreMacroArgs:              "Wrong number of macro arguments",
		PreUnterminatedIf:         "Unterminated conditional directive",
		PreUnexpectedElse:         "Unexpected conditional directive",
		PreErrorDirective:         "#error",
		PreInvalidExpression:      "Invalid #if expression",
		PreInvalidLine:            "Invalid #line directive",
		PreExtensionWarning:       "Extension used with warn behavior",
		PreReservedMacroName:      "Reserved macro name",
		PreExtensionAfterCode:     "#extension after non-preprocessor tokens",
		SemaInfo:                  "Semantic information",
		SemaUndeclaredIdentifier:  "Undeclared identifier",
		SemaRedeclaration:         "Redeclaration",
		SemaTypeMismatch:          "Type mismatch",
		SemaInvalidOperands:       "Invalid operands for binary operator",
		SemaInvalidUnaryOperand:   "Invalid operand for unary operator",
		SemaReservedOperator:      "Operator reserved in GLSL ES 1.00",
		SemaNotLValue:             "Expression is not an l-value",
		SemaConstNotConstant:      "Const initializer is not constant",
		SemaConstMissingInit:      "Const variable requires an initializer",
		SemaConditionNotBool:      "Condition must be a boolean scalar",
		SemaTernaryTypeMismatch:   "Ternary result operands differ in type",
		SemaTernaryOperandType:    "Invalid ternary operand type",
		SemaNoMatchingFunction:    "No matching function",
		SemaFunctionRedefined:     "Function redefinition",
		SemaMissingMain:           "Missing main function",
		SemaInvalidMain:           "main must be declared as void main()",
		SemaConstructorArgs:       "Invalid constructor arguments",
		SemaIndexNotInt:           "Index must be an integer scalar",
		SemaIndexOutOfRange:       "Index out of range",
		SemaNotIndexable:          "Expression cannot be indexed",
		SemaInvalidSwizzle:        "Invalid swizzle",
		SemaNoSuchField:           "No such field",
		SemaQualifierScope:        "Storage qualifier not allowed here",
		SemaAttributeStage:        "attribute is only allowed in vertex shaders",
		SemaAttributeType:         "Invalid attribute type",
		SemaVaryingType:           "Invalid varying type",
		SemaQualifierInitializer:  "Qualified variable cannot be initialized",
		SemaArraySize:             "Array size must be a positive constant integer",
		SemaBreakOutsideLoop:      "break/continue outside a loop",
		SemaReturnType:            "Return type mismatch",
		SemaDiscardInVertex:       "discard is only allowed in fragment shaders",
		SemaExtensionDisabled:     "Extension is not enabled",
		SemaTooManyVaryings:       "Too many varyings",
		SemaPrecisionType:         "Invalid precision statement type",
		SemaInvariantTarget:       "Invalid invariant target",
		SemaVoidVariable:          "Variable cannot have type void",
		SemaFunctionDeclMismatch:  "Function declaration mismatch",
		SemaStructInvalid:         "Invalid struct declaration",
		SemaSamplerMisuse:         "Invalid use of a sampler",
		SemaNotAFunction:          "Identifier is not a function",
		SemaRecursion:             "Recursion is not allowed",
		SemaMissingPrecision:      "No default precision for float in fragment shader",
		SemaFunctionNotDefined:    "Function declared but never defined",
		SemaArrayMisuse:           "Invalid use of an array",
		SemaReservedName:          "Identifier uses a reserved name",
		SemaNotAVariable:          "Identifier is not a variable",
		LoopInfo:                  "Loop information",
		LoopInvalidInit:           "Invalid for-loop initializer",
		LoopInvalidCondition:      "Invalid for-loop condition",
		LoopInvalidIteration:      "Invalid for-loop iteration expression",
		LoopIndexWritten:          "Loop index written inside loop body",
		LoopUnbounded:             "Loop cannot be unrolled",
		LinkInfo:                  "Link information",
		LinkTypeMismatch:          "Varying type mismatch between stages",
		LinkNotVertexDeclared:     "Fragment varying not declared in vertex shader",
		LinkBudgetExceeded:        "Varying budget exceeded",
		IOLoadFileError:           "I/O load file error",
		InternalFailure:           "Internal translator failure",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 2500:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2500 && ic < 3000:
		return fmt.Sprintf("PRE%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LOP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("LNK%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
