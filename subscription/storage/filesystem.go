package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/subscription"
)

const fileNameSeparator = "--"

// FilesystemStore store every subscriber in one file named <id>--<channel>[@<schemaName>]
type FilesystemStore struct {
	mu        sync.RWMutex
	directory string
}

// NewFilesystemStore constructor, create directory when not exist
func NewFilesystemStore(directory string, perm os.FileMode) (*FilesystemStore, error) {
	if err := os.MkdirAll(directory, perm); err != nil {
		return nil, candishared.NewStorageError("init", err)
	}
	return &FilesystemStore{directory: directory}, nil
}

func (f *FilesystemStore) fileName(subscriber *subscription.Subscriber) string {
	return filepath.Join(f.directory, subscriber.ID+fileNameSeparator+channelKey(subscriber.Channel, subscriber.SchemaName))
}

// Store method
func (f *FilesystemStore) Store(ctx context.Context, subscriber *subscription.Subscriber) error {
	data, err := Encode(subscriber)
	if err != nil {
		return candishared.NewStorageError("store", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fileName := f.fileName(subscriber)
	tmp, err := os.CreateTemp(f.directory, ".tmp-"+subscriber.ID)
	if err != nil {
		return candishared.NewStorageError("store", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return candishared.NewStorageError("store", fmt.Errorf("failed to write subscription to file %q: %w", fileName, err))
	}
	if err := tmp.Close(); err != nil {
		return candishared.NewStorageError("store", err)
	}
	if err := os.Rename(tmp.Name(), fileName); err != nil {
		return candishared.NewStorageError("store", fmt.Errorf("failed to write subscription to file %q: %w", fileName, err))
	}
	return nil
}

// FindByChannelAndSchema method, unreadable or incomplete file is skipped
func (f *FilesystemStore) FindByChannelAndSchema(ctx context.Context, channel, schemaName string, handleFunc func(*subscription.Subscriber) error) error {
	f.mu.RLock()
	entries, err := os.ReadDir(f.directory)
	f.mu.RUnlock()
	if err != nil {
		return candishared.NewStorageError("find", err)
	}

	key := channelKey(channel, schemaName)
	for _, entry := range entries {
		id, entryKey, ok := strings.Cut(entry.Name(), fileNameSeparator)
		if entry.IsDir() || !ok || id == "" || entryKey != key {
			continue
		}

		data, err := os.ReadFile(filepath.Join(f.directory, entry.Name()))
		if err != nil {
			logger.LogYellow(fmt.Sprintf("storage: skip unreadable subscriber file %s: %v", entry.Name(), err))
			continue
		}
		subscriber, ok := decodeRecord(entry.Name(), data)
		if !ok {
			continue
		}

		if err := handleFunc(subscriber); err != nil {
			return err
		}
	}
	return nil
}

// Delete method
func (f *FilesystemStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(f.directory, escapeGlob(id)+fileNameSeparator+"*"))
	if err != nil {
		return candishared.NewStorageError("delete", err)
	}
	if len(matches) == 0 {
		return candishared.NewNotFoundError("subscriber", id)
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return candishared.NewStorageError("delete", err)
		}
	}
	return nil
}

func escapeGlob(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`).Replace(s)
}
