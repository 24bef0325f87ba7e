// Package requests implements the class-specific request codes defined in
// CDC spec 1.2, section 6.2 and PSTN120, section 6.3.
package requests

type RequestType byte

const (
	RequestTypeInterfaceClassSet RequestType = 0b00100001
	RequestTypeInterfaceClassGet RequestType = 0b10100001
)

type RequestCode byte

const (
	RequestCodeSendEncapsulatedCommand RequestCode = 0x00
	RequestCodeGetEncapsulatedResponse RequestCode = 0x01
	RequestCodeSetCommFeature          RequestCode = 0x02
	RequestCodeGetCommFeature          RequestCode = 0x03
	RequestCodeClearCommFeature        RequestCode = 0x04
	RequestCodeSetLineCoding           RequestCode = 0x20
	RequestCodeGetLineCoding           RequestCode = 0x21
	RequestCodeSetControlLineState     RequestCode = 0x22
	RequestCodeSendBreak               RequestCode = 0x23
)

// Control line state bits for SET_CONTROL_LINE_STATE, PSTN120 table 18.
const (
	ControlLineDTR uint16 = 1 << 0
	ControlLineRTS uint16 = 1 << 1
)
