package engine

import "github.com/quantrail/fixcore/fixwire"

// Tag numbers for the admin-message body fields the core reads and writes
// directly. Header fields (8, 9, 34, 35, 49, 52, 56, 10) are owned by
// fixwire.Message/Codec and never touched here.
const (
	tagBeginSeqNo      = 7
	tagEndSeqNo        = 16
	tagRefSeqNum       = 45
	tagText            = 58
	tagHeartBtInt      = 108
	tagTestReqID       = 112
	tagNewSeqNo        = 36
	tagGapFillFlag     = 123
	tagResetSeqNumFlag = 141
)

func fieldBool(msg fixwire.Message, tag int) bool {
	v, _ := msg.Field(tag)
	return v == "Y"
}
