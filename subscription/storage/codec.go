package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/klauspost/compress/zlib"
	"github.com/vmihailenco/msgpack/v5"
)

// Encode serialize subscriber record with msgpack and compress it
func Encode(subscriber *subscription.Subscriber) ([]byte, error) {
	raw, err := msgpack.Marshal(subscriber)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode decompress and deserialize subscriber record
func Decode(data []byte) (*subscription.Subscriber, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var subscriber subscription.Subscriber
	if err := msgpack.Unmarshal(raw, &subscriber); err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// decodeRecord decode stored record, corrupt or incomplete record is logged and not ok
func decodeRecord(source string, data []byte) (*subscription.Subscriber, bool) {
	subscriber, err := Decode(data)
	if err != nil {
		logger.LogYellow(fmt.Sprintf("storage: skip corrupt subscriber record %s: %v", source, err))
		return nil, false
	}
	if !subscriber.Validate() {
		logger.LogYellow(fmt.Sprintf("storage: skip incomplete subscriber record %s", source))
		return nil, false
	}
	return subscriber, true
}

// channelKey index key of channel and schema name
func channelKey(channel, schemaName string) string {
	if schemaName == "" {
		return channel
	}
	return channel + "@" + schemaName
}
