package pipeline

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"cwl2slack/internal/payloads"
	"cwl2slack/internal/util"
	"cwl2slack/log"
)

// Decode turns the awslogs.data blob into a LogBatch:
// base64 -> gzip -> UTF-8 -> JSON object.
func Decode(raw string) (*payloads.LogBatch, error) {
	if raw == "" {
		return nil, util.NewDecodeError(nil, "awslogs.data is empty")
	}

	compressed, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, util.NewDecodeError(err, "base64")
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, util.NewDecodeError(err, "gzip")
	}
	defer zr.Close()

	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, util.NewDecodeError(err, "gzip")
	}

	if !utf8.Valid(body) {
		return nil, util.NewDecodeError(nil, "payload is not valid UTF-8")
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, util.NewDecodeError(nil, "payload is not a JSON object")
	}

	batch, err := decodeBatch(trimmed)
	if err != nil {
		return nil, err
	}

	log.Logger().WithField("batch", string(trimmed)).Debug("Decoded subscription payload")
	return batch, nil
}

// decodeBatch reads the batch key by key. encoding/json matches struct tags
// case-insensitively, so the object is split into raw fields first and only
// the exact key names are honoured.
func decodeBatch(body []byte) (*payloads.LogBatch, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, util.NewDecodeError(err, "json")
	}

	batch := &payloads.LogBatch{}
	if err := decodeField(fields, "messageType", "messageType", &batch.MessageType, false); err != nil {
		return nil, err
	}
	if err := decodeField(fields, "owner", "owner", &batch.Owner, false); err != nil {
		return nil, err
	}
	if err := decodeField(fields, "logGroup", "logGroup", &batch.LogGroup, true); err != nil {
		return nil, err
	}
	if err := decodeField(fields, "logStream", "logStream", &batch.LogStream, true); err != nil {
		return nil, err
	}
	if err := decodeField(fields, "subscriptionFilters", "subscriptionFilters", &batch.SubscriptionFilters, false); err != nil {
		return nil, err
	}

	var rawEvents []json.RawMessage
	if err := decodeField(fields, "logEvents", "logEvents", &rawEvents, true); err != nil {
		return nil, err
	}
	if rawEvents != nil {
		batch.LogEvents = make([]payloads.LogEvent, 0, len(rawEvents))
	}
	for i, rawEvent := range rawEvents {
		event, err := decodeEvent(rawEvent, fmt.Sprintf("logEvents[%d]", i))
		if err != nil {
			return nil, err
		}
		batch.LogEvents = append(batch.LogEvents, event)
	}
	return batch, nil
}

func decodeEvent(raw json.RawMessage, path string) (payloads.LogEvent, error) {
	var event payloads.LogEvent
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return event, schemaTypeError(path, err)
	}
	if fields == nil {
		return event, util.NewSchemaError(path, "is null")
	}
	if err := decodeField(fields, "id", path+".id", &event.ID, false); err != nil {
		return event, err
	}
	if err := decodeField(fields, "timestamp", path+".timestamp", &event.Timestamp, false); err != nil {
		return event, err
	}
	if err := decodeField(fields, "message", path+".message", &event.Message, true); err != nil {
		return event, err
	}
	return event, nil
}

// decodeField unmarshals fields[key] into dst. A required key must be present
// with exactly this spelling.
func decodeField(fields map[string]json.RawMessage, key, path string, dst any, required bool) error {
	raw, ok := fields[key]
	if !ok {
		if required {
			return util.NewSchemaError(path, "is required")
		}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return schemaTypeError(path, err)
	}
	return nil
}

func schemaTypeError(path string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return util.NewSchemaError(path, fmt.Sprintf("has type %s, want %s", typeErr.Value, typeErr.Type))
	}
	return util.NewDecodeError(err, path)
}

// Encode is the inverse of Decode. The replay tool and tests use it to build
// subscription events.
func Encode(batch *payloads.LogBatch) (string, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err = zw.Write(body); err != nil {
		return "", err
	}
	if err = zw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
