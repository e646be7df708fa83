package osc

import "fmt"

// Address patterns of the compositing engine, parametrized by layer and clip slot.
const (
	linesAddressFormat   = "/composition/layers/%d/clips/%d/video/source/textgenerator/text/params/lines"
	connectAddressFormat = "/composition/layers/%d/clips/%d/connect"
)

// LinesAddress returns the text parameter address of the given clip slot.
func LinesAddress(layer, slot int) string {
	return fmt.Sprintf(linesAddressFormat, layer, slot)
}

// ConnectAddress returns the connect (trigger) address of the given clip slot.
func ConnectAddress(layer, slot int) string {
	return fmt.Sprintf(connectAddressFormat, layer, slot)
}

// SetTextMessage builds the "set text" unit for a clip slot: the message
// text is the sole string argument.
func SetTextMessage(layer, slot int, text string) Message {
	return NewMessage(LinesAddress(layer, slot), String(text))
}

// TriggerMessage builds the "activate clip" unit for a slot. The receiver
// expects a boolean encoded as int32 1.
func TriggerMessage(layer, slot int) Message {
	return NewMessage(ConnectAddress(layer, slot), Int32(1))
}
