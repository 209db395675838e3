package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

const (
	Descriptor_WrapperVersion = "unity_wrapper"
	Descriptor_OS             = "os"
	Descriptor_ProcessorType  = "processor_type"
	Descriptor_GfxName        = "gfx_name"
	Descriptor_GfxVersion     = "gfx_version"

	systemSegment = "system"
)

// FieldNames maps the semantic roles of a record onto the literal names used
// on the wire.
type FieldNames struct {
	EventID string `json:"eventId"`
	Message string `json:"message"`
}

var DefaultFieldNames = FieldNames{
	EventID: "event_id",
	Message: "message",
}

// Record is a single telemetry entry: an event id and its message, encoded
// in that order.
type Record struct {
	EventID string
	Message string
	Names   FieldNames
}

func NewRecord(eventID, message string) Record {
	return Record{EventID: eventID, Message: message, Names: DefaultFieldNames}
}

// SystemEventID builds "<rootPrefix>:system:<descriptor>", dropping the
// prefix segment when rootPrefix is empty.
func SystemEventID(rootPrefix, descriptor string) string {
	if rootPrefix == "" {
		return systemSegment + ":" + descriptor
	}
	return strings.Join([]string{rootPrefix, systemSegment, descriptor}, ":")
}

func (r Record) names() FieldNames {
	if r.Names.EventID == "" || r.Names.Message == "" {
		return DefaultFieldNames
	}
	return r.Names
}

func (r Record) MarshalJSON() ([]byte, error) {
	names := r.names()
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range [2][2]string{{names.EventID, r.EventID}, {names.Message, r.Message}} {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv[0])
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(kv[1])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	names := r.names()
	r.Names = names
	r.EventID = raw[names.EventID]
	r.Message = raw[names.Message]
	return nil
}

// ToStruct converts the record for transports that carry protobuf Structs.
// Structs are unordered; use MarshalJSON where field order matters.
func (r Record) ToStruct() *structpb.Struct {
	names := r.names()
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		names.EventID: structpb.NewStringValue(r.EventID),
		names.Message: structpb.NewStringValue(r.Message),
	}}
}

// SessionStart is everything the submission layer needs to announce a new
// session: who, which run, when, and the environment it runs in.
type SessionStart struct {
	UserID     string   `json:"user_id"`
	SessionID  string   `json:"session_id"`
	SessionNum int      `json:"session_num"`
	ClientTS   int64    `json:"client_ts"`
	Platform   string   `json:"platform"`
	Records    []Record `json:"records"`
}

func (s SessionStart) ToStruct() *structpb.Struct {
	records := make([]*structpb.Value, 0, len(s.Records))
	for _, record := range s.Records {
		records = append(records, structpb.NewStructValue(record.ToStruct()))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"user_id":     structpb.NewStringValue(s.UserID),
		"session_id":  structpb.NewStringValue(s.SessionID),
		"session_num": structpb.NewNumberValue(float64(s.SessionNum)),
		"client_ts":   structpb.NewNumberValue(float64(s.ClientTS)),
		"platform":    structpb.NewStringValue(s.Platform),
		"records":     structpb.NewListValue(&structpb.ListValue{Values: records}),
	}}
}
