package pipeline

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cwl2slack/internal/payloads"
	"cwl2slack/internal/util"
)

// gzipBase64 wraps arbitrary bytes the way CloudWatch Logs does.
func gzipBase64(t *testing.T, body []byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(body)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecode(t *testing.T) {
	t.Run("SubscriptionPayload", func(t *testing.T) {
		raw := gzipBase64(t, []byte(`{
			"messageType": "DATA_MESSAGE",
			"owner": "123456789012",
			"logGroup": "/aws/lambda/app",
			"logStream": "2024/01/01/[$LATEST]abc",
			"subscriptionFilters": ["errors"],
			"logEvents": [
				{"id": "1", "timestamp": 1700000000000, "message": "ERROR boom"},
				{"id": "2", "timestamp": 1700000000001, "message": "INFO fine"}
			]
		}`))

		batch, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, "DATA_MESSAGE", batch.MessageType)
		assert.Equal(t, "/aws/lambda/app", *batch.LogGroup)
		assert.Equal(t, "2024/01/01/[$LATEST]abc", *batch.LogStream)
		assert.Equal(t, []string{"errors"}, batch.SubscriptionFilters)
		require.Len(t, batch.LogEvents, 2)
		assert.Equal(t, "1", batch.LogEvents[0].ID)
		assert.Equal(t, int64(1700000000000), batch.LogEvents[0].Timestamp)
		assert.Equal(t, "ERROR boom", *batch.LogEvents[0].Message)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		batches := []*payloads.LogBatch{
			payloads.NewLogBatch("g1", "s1", "ERROR boom"),
			payloads.NewLogBatch("g1", "s1"),
			payloads.NewLogBatch("/aws/ecs/api", "ecs/api/0f1e", "line 1", "line 2 \"quoted\"", "日本語のログ", "```inner fence```"),
		}
		for _, want := range batches {
			raw, err := Encode(want)
			require.NoError(t, err)

			got, err := Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("NullValuesDecodeAsNil", func(t *testing.T) {
		batch, err := Decode(gzipBase64(t, []byte(`{"logGroup":null,"logStream":"s1","logEvents":[]}`)))
		require.NoError(t, err)
		assert.Nil(t, batch.LogGroup)
		assert.NotNil(t, batch.LogEvents)
	})

	t.Run("ExactCaseKeyWins", func(t *testing.T) {
		batch, err := Decode(gzipBase64(t, []byte(
			`{"logGroup":"real","LogGroup":"spoofed","logStream":"s1","logEvents":[{"message":"kept","MESSAGE":"spoofed"}]}`)))
		require.NoError(t, err)
		assert.Equal(t, "real", *batch.LogGroup)
		require.Len(t, batch.LogEvents, 1)
		assert.Equal(t, "kept", *batch.LogEvents[0].Message)
	})
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		raw      func(t *testing.T) string
		wantCode util.ErrorCode
		contains string
	}{
		{"Empty", func(t *testing.T) string { return "" }, util.ErrCodeDecode, "empty"},
		{"NotBase64", func(t *testing.T) string { return "not-base64!!" }, util.ErrCodeDecode, "base64"},
		{"NotGzip", func(t *testing.T) string {
			return base64.StdEncoding.EncodeToString([]byte(`{"logGroup":"g1"}`))
		}, util.ErrCodeDecode, "gzip"},
		{"TruncatedGzip", func(t *testing.T) string {
			full, _ := base64.StdEncoding.DecodeString(gzipBase64(t, []byte(`{"logGroup":"g1","logStream":"s1","logEvents":[]}`)))
			return base64.StdEncoding.EncodeToString(full[:len(full)-6])
		}, util.ErrCodeDecode, "gzip"},
		{"InvalidUTF8", func(t *testing.T) string {
			return gzipBase64(t, []byte{'{', '"', 0xff, 0xfe, '"', ':', '1', '}'})
		}, util.ErrCodeDecode, "UTF-8"},
		{"InvalidJSON", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"logGroup":`))
		}, util.ErrCodeDecode, "json"},
		{"JSONArray", func(t *testing.T) string {
			return gzipBase64(t, []byte(`[{"logGroup":"g1"}]`))
		}, util.ErrCodeDecode, "not a JSON object"},
		{"JSONNull", func(t *testing.T) string {
			return gzipBase64(t, []byte(`null`))
		}, util.ErrCodeDecode, "not a JSON object"},
		{"TrailingGarbage", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"logGroup":"g1"} trailing`))
		}, util.ErrCodeDecode, "json"},
		{"MistypedLogGroup", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"logGroup":42,"logStream":"s1","logEvents":[]}`))
		}, util.ErrCodeSchema, "logGroup"},
		{"MissingLogGroup", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"logStream":"s1","logEvents":[]}`))
		}, util.ErrCodeSchema, "logGroup is required"},
		{"WrongCaseKeysOnly", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"LOGGROUP":"g1","LogStream":"s1","LogEvents":[{"MESSAGE":"ERROR boom"}]}`))
		}, util.ErrCodeSchema, "logGroup is required"},
		{"WrongCaseLogEvents", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"logGroup":"g1","logStream":"s1","LogEvents":[{"message":"x"}]}`))
		}, util.ErrCodeSchema, "logEvents is required"},
		{"WrongCaseMessage", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"logGroup":"g1","logStream":"s1","logEvents":[{"message":"a"},{"Message":"b"}]}`))
		}, util.ErrCodeSchema, "logEvents[1].message is required"},
		{"EventNotObject", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"logGroup":"g1","logStream":"s1","logEvents":["ERROR boom"]}`))
		}, util.ErrCodeSchema, "logEvents[0]"},
		{"NullEvent", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"logGroup":"g1","logStream":"s1","logEvents":[null]}`))
		}, util.ErrCodeSchema, "logEvents[0] is null"},
		{"MistypedMessage", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"logGroup":"g1","logStream":"s1","logEvents":[{"message":7}]}`))
		}, util.ErrCodeSchema, "logEvents[0].message"},
		{"MistypedLogEvents", func(t *testing.T) string {
			return gzipBase64(t, []byte(`{"logGroup":"g1","logStream":"s1","logEvents":"nope"}`))
		}, util.ErrCodeSchema, "logEvents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := Decode(tt.raw(t))
			require.Error(t, err)
			assert.Nil(t, batch)
			assert.True(t, errors.Is(err, tt.wantCode), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
