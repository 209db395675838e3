package gameanalytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameanalytics/ga-go-sdk/api"
)

func eventIDs(records []api.Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.EventID)
	}
	return ids
}

func TestRecordBuilder_RestrictedPlatform(t *testing.T) {
	env := testEnvironment()
	records := NewRecordBuilder(api.PlatformIOS, env).BuildEnvironmentRecords("")

	require.Len(t, records, 1)
	require.Equal(t, "system:os", records[0].EventID)
	require.Equal(t, api.PlatformName_IOS, records[0].Message)
	require.Zero(t, env.reads, "restricted platforms must not read device descriptors")
}

func TestRecordBuilder_RestrictedPlatform_WithPrefix(t *testing.T) {
	records := NewRecordBuilder(api.PlatformIOS, testEnvironment()).BuildEnvironmentRecords("abc")
	require.Equal(t, []string{"abc:system:os"}, eventIDs(records))
}

func TestRecordBuilder_FullDescriptors(t *testing.T) {
	records := NewRecordBuilder(api.PlatformWindows, testEnvironment()).BuildEnvironmentRecords("abc")

	require.Equal(t, []string{
		"abc:system:unity_wrapper",
		"abc:system:os",
		"abc:system:processor_type",
		"abc:system:gfx_name",
		"abc:system:gfx_version",
	}, eventIDs(records))

	messages := make([]string, 0, len(records))
	for _, r := range records {
		messages = append(messages, r.Message)
		assert.Equal(t, api.DefaultFieldNames, r.Names)
	}
	require.Equal(t, []string{
		"unity 7.8.0",
		"Linux ubuntu 22.04",
		"Intel(R) Core(TM) i7-9750H",
		"NVIDIA GeForce GTX 1650",
		"OpenGL 4.6",
	}, messages)
}

func TestRecordBuilder_FullDescriptors_NoPrefix(t *testing.T) {
	records := NewRecordBuilder(api.PlatformAndroid, testEnvironment()).BuildEnvironmentRecords("")
	require.Equal(t, []string{
		"system:unity_wrapper",
		"system:os",
		"system:processor_type",
		"system:gfx_name",
		"system:gfx_version",
	}, eventIDs(records))
}

func TestRecordBuilder_UnknownPlatform(t *testing.T) {
	records := NewRecordBuilder(api.DetectPlatform("plan9"), testEnvironment()).BuildEnvironmentRecords("abc")
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestRecordBuilder_NilEnvironment(t *testing.T) {
	require.Empty(t, NewRecordBuilder(api.PlatformLinux, nil).BuildEnvironmentRecords(""))
	require.Len(t, NewRecordBuilder(api.PlatformIOS, nil).BuildEnvironmentRecords(""), 1)
}

func TestRecordBuilder_ReadsValuesOnEveryCall(t *testing.T) {
	env := testEnvironment()
	b := NewRecordBuilder(api.PlatformLinux, env)

	first := b.BuildEnvironmentRecords("")
	env.gfxVersion = "Vulkan 1.3"
	second := b.BuildEnvironmentRecords("")

	require.Equal(t, "OpenGL 4.6", first[4].Message)
	require.Equal(t, "Vulkan 1.3", second[4].Message)
	require.Equal(t, 2, env.reads)
}

func TestRecordBuilder_WithFieldNames(t *testing.T) {
	names := api.FieldNames{EventID: "eventId", Message: "value"}
	b := NewRecordBuilder(api.PlatformIOS, nil)
	records := b.WithFieldNames(names).BuildEnvironmentRecords("")
	require.Equal(t, names, records[0].Names)

	// the original builder is untouched
	require.Equal(t, api.DefaultFieldNames, b.BuildEnvironmentRecords("")[0].Names)
}
