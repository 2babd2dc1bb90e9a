// Package tagvalue is a reference implementation of fixwire.Codec and
// fixwire.Metadata over the classic FIX tag=value SOH-delimited wire
// format. It exists so the engine package has something concrete to test
// against; a production deployment is expected to plug in a dictionary-
// driven codec instead (this one has no notion of required fields per
// message type).
package tagvalue

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/pingcap/errors"
	"github.com/quantrail/fixcore/fixwire"
)

const soh = '\x01'

const (
	tagBeginString     = 8
	tagBodyLength      = 9
	tagMsgType         = 35
	tagMsgSeqNum       = 34
	tagSenderCompID    = 49
	tagTargetCompID    = 56
	tagSendingTime     = 52
	tagOrigSendingTime = 122
	tagPossDupFlag     = 43
	tagCheckSum        = 10
)

const timeLayout = "20060102-15:04:05.000"

// message is the reference fixwire.Message implementation: an ordered list
// of tag=value pairs (ordering matters on the wire; header fields are
// re-sorted to the front on Encode) plus a lookup map.
type message struct {
	beginString string
	order       []int
	fields      map[int]string
	raw         []byte
}

func newMessage(beginString string, msgType fixwire.MsgType) *message {
	m := &message{beginString: beginString, fields: map[int]string{}}
	m.SetField(tagMsgType, string(msgType))
	return m
}

func (m *message) SetField(tag int, value string) {
	if _, exists := m.fields[tag]; !exists {
		m.order = append(m.order, tag)
	}
	m.fields[tag] = value
}

func (m *message) Field(tag int) (string, bool) {
	v, ok := m.fields[tag]
	return v, ok
}

func (m *message) MsgType() fixwire.MsgType {
	v, _ := m.Field(tagMsgType)
	return fixwire.MsgType(v)
}

func (m *message) SeqNum() uint64 {
	v, _ := m.Field(tagMsgSeqNum)
	n, _ := strconv.ParseUint(v, 10, 64)
	return n
}

func (m *message) SetSeqNum(seq uint64) {
	m.SetField(tagMsgSeqNum, strconv.FormatUint(seq, 10))
}

func (m *message) SenderCompID() string {
	v, _ := m.Field(tagSenderCompID)
	return v
}

func (m *message) TargetCompID() string {
	v, _ := m.Field(tagTargetCompID)
	return v
}

func (m *message) SetSenderTarget(sender, target string) {
	m.SetField(tagSenderCompID, sender)
	m.SetField(tagTargetCompID, target)
}

func (m *message) PossDupFlag() bool {
	v, _ := m.Field(tagPossDupFlag)
	return v == "Y"
}

func (m *message) SetPossDupFlag(v bool) {
	if v {
		m.SetField(tagPossDupFlag, "Y")
	} else {
		m.SetField(tagPossDupFlag, "N")
	}
}

func (m *message) SendingTime() time.Time {
	v, ok := m.Field(tagSendingTime)
	if !ok {
		return time.Time{}
	}
	t, _ := time.Parse(timeLayout, v)
	return t
}

func (m *message) SetSendingTime(t time.Time) {
	m.SetField(tagSendingTime, t.UTC().Format(timeLayout))
}

func (m *message) OrigSendingTime() (time.Time, bool) {
	v, ok := m.Field(tagOrigSendingTime)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(timeLayout, v)
	return t, err == nil
}

func (m *message) SetOrigSendingTime(t time.Time) {
	m.SetField(tagOrigSendingTime, t.UTC().Format(timeLayout))
}

func (m *message) Raw() []byte { return m.raw }

// Codec implements fixwire.Codec over SOH-delimited tag=value frames.
type Codec struct {
	BeginString string
}

// Decode parses a raw frame into a Message and validates the checksum. A
// frame that splits into tag=value fields but lacks MsgType or fails the
// checksum yields a recoverable DecodeError carrying its MsgSeqNum when
// that field parsed; a frame with any malformed field yields a
// non-recoverable DecodeError without a seqnum.
func (c *Codec) Decode(raw []byte) (fixwire.Message, *fixwire.DecodeError) {
	fields, err := splitFields(raw)
	if err != nil {
		return nil, &fixwire.DecodeError{Err: err, Recoverable: false}
	}

	m := &message{beginString: c.BeginString, fields: map[int]string{}, raw: raw}
	var seqnum uint64
	haveSeqnum := false
	for _, f := range fields {
		m.SetField(f.tag, f.value)
		if f.tag == tagMsgSeqNum {
			if n, perr := strconv.ParseUint(f.value, 10, 64); perr == nil {
				seqnum = n
				haveSeqnum = true
			}
		}
	}

	if _, ok := m.Field(tagMsgType); !ok {
		return nil, &fixwire.DecodeError{
			Err:         errors.New("tagvalue: missing MsgType(35)"),
			Recoverable: haveSeqnum,
			Seqnum:      seqnum,
		}
	}

	if err := verifyChecksum(raw); err != nil {
		return nil, &fixwire.DecodeError{Err: err, Recoverable: haveSeqnum, Seqnum: seqnum}
	}

	return m, nil
}

type rawField struct {
	tag   int
	value string
}

func splitFields(raw []byte) ([]rawField, error) {
	parts := bytes.Split(bytes.TrimSuffix(raw, []byte{soh}), []byte{soh})
	fields := make([]rawField, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		eq := bytes.IndexByte(p, '=')
		if eq < 0 {
			return nil, errors.Errorf("tagvalue: malformed field %q", p)
		}
		tag, err := strconv.Atoi(string(p[:eq]))
		if err != nil {
			return nil, errors.Annotatef(err, "tagvalue: bad tag in %q", p)
		}
		fields = append(fields, rawField{tag: tag, value: string(p[eq+1:])})
	}
	return fields, nil
}

func verifyChecksum(raw []byte) error {
	idx := bytes.LastIndex(raw, []byte(fmt.Sprintf("%c%d=", soh, tagCheckSum)))
	if idx < 0 {
		return errors.New("tagvalue: missing CheckSum(10)")
	}
	body := raw[:idx+1] // includes the trailing SOH before "10="
	want := checksum(body)

	tail := raw[idx+1:]
	eq := bytes.IndexByte(tail, '=')
	if eq < 0 {
		return errors.New("tagvalue: malformed CheckSum field")
	}
	valEnd := bytes.IndexByte(tail[eq+1:], soh)
	if valEnd < 0 {
		valEnd = len(tail) - eq - 1
	}
	got, err := strconv.Atoi(string(tail[eq+1 : eq+1+valEnd]))
	if err != nil {
		return errors.Annotate(err, "tagvalue: bad CheckSum value")
	}
	if got != want {
		return errors.Errorf("tagvalue: checksum mismatch got=%d want=%d", got, want)
	}
	return nil
}

func checksum(b []byte) int {
	var sum int
	for _, c := range b {
		sum += int(c)
	}
	return sum % 256
}

// Encode serializes msg into a frame with correct BodyLength(9) and
// CheckSum(10), placing the standard header first in the canonical order
// 8, 9, 35, 34, 49, 56, 52, then the remaining fields in insertion order.
func (c *Codec) Encode(msg fixwire.Message) ([]byte, error) {
	m, ok := msg.(*message)
	if !ok {
		return nil, errors.New("tagvalue: Encode called with a foreign Message implementation")
	}

	body := &bytes.Buffer{}
	writeField(body, tagMsgType, string(m.MsgType()))
	writeField(body, tagMsgSeqNum, strconv.FormatUint(m.SeqNum(), 10))
	if v, ok := m.Field(tagSenderCompID); ok {
		writeField(body, tagSenderCompID, v)
	}
	if v, ok := m.Field(tagTargetCompID); ok {
		writeField(body, tagTargetCompID, v)
	}
	if v, ok := m.Field(tagSendingTime); ok {
		writeField(body, tagSendingTime, v)
	}

	written := map[int]bool{
		tagMsgType: true, tagMsgSeqNum: true, tagSenderCompID: true,
		tagTargetCompID: true, tagSendingTime: true,
		tagBeginString: true, tagBodyLength: true, tagCheckSum: true,
	}
	rest := make([]int, 0, len(m.order))
	for _, t := range m.order {
		if !written[t] {
			rest = append(rest, t)
			written[t] = true
		}
	}
	for _, t := range rest {
		writeField(body, t, m.fields[t])
	}

	beginString := c.BeginString
	if beginString == "" {
		beginString = m.beginString
	}

	out := &bytes.Buffer{}
	writeField(out, tagBeginString, beginString)
	writeField(out, tagBodyLength, strconv.Itoa(body.Len()))
	out.Write(body.Bytes())

	sum := checksum(out.Bytes())
	writeField(out, tagCheckSum, fmt.Sprintf("%03d", sum))

	m.raw = out.Bytes()
	return m.raw, nil
}

func writeField(buf *bytes.Buffer, tag int, value string) {
	buf.WriteString(strconv.Itoa(tag))
	buf.WriteByte('=')
	buf.WriteString(value)
	buf.WriteByte(soh)
}

// Metadata implements fixwire.Metadata by manufacturing empty, untyped
// messages; the dictionary of required fields per type is deliberately not
// modeled (spec.md scopes that to an external "Metadata" collaborator a
// production deployment supplies).
type Metadata struct {
	BeginString string
}

func (md *Metadata) Create(t fixwire.MsgType) (fixwire.Message, error) {
	if !t.IsAdmin() {
		return nil, &fixwire.ErrUnknownType{MsgType: t}
	}
	return newMessage(md.BeginString, t), nil
}

var _ fixwire.Codec = (*Codec)(nil)
var _ fixwire.Metadata = (*Metadata)(nil)
