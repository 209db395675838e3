package gameanalytics

import (
	"github.com/gameanalytics/ga-go-sdk/api"
)

// RecordBuilder turns the runtime environment into telemetry records,
// honouring the platform's telemetry policy.
type RecordBuilder struct {
	platform api.Platform
	env      EnvironmentSource
	names    api.FieldNames
}

// NewRecordBuilder reads descriptor values from env on every build.
func NewRecordBuilder(platform api.Platform, env EnvironmentSource) *RecordBuilder {
	return &RecordBuilder{platform: platform, env: env, names: api.DefaultFieldNames}
}

// WithFieldNames returns a copy of the builder emitting records with names.
func (b *RecordBuilder) WithFieldNames(names api.FieldNames) *RecordBuilder {
	c := *b
	c.names = names
	return &c
}

// BuildEnvironmentRecords returns one record per descriptor, keyed
// "<rootPrefix>:system:<descriptor>". Restricted platforms only get the
// platform name; unknown platforms get nothing.
func (b *RecordBuilder) BuildEnvironmentRecords(rootPrefix string) []api.Record {
	if !b.platform.Known {
		return []api.Record{}
	}
	if b.platform.RestrictedTelemetry {
		return []api.Record{b.record(rootPrefix, api.Descriptor_OS, b.platform.Name)}
	}
	if b.env == nil {
		return []api.Record{}
	}

	return []api.Record{
		b.record(rootPrefix, api.Descriptor_WrapperVersion, b.env.WrapperVersion()),
		b.record(rootPrefix, api.Descriptor_OS, b.env.OperatingSystem()),
		b.record(rootPrefix, api.Descriptor_ProcessorType, b.env.ProcessorType()),
		b.record(rootPrefix, api.Descriptor_GfxName, b.env.GraphicsDeviceName()),
		b.record(rootPrefix, api.Descriptor_GfxVersion, b.env.GraphicsDeviceVersion()),
	}
}

func (b *RecordBuilder) record(rootPrefix, descriptor, message string) api.Record {
	return api.Record{
		EventID: api.SystemEventID(rootPrefix, descriptor),
		Message: message,
		Names:   b.names,
	}
}
