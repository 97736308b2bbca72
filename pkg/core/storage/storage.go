package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store 保存上传内容并返回落盘路径
type Store interface {
	Save(name string, content []byte) (string, error)
}

// LocalStore 写入本地目录；文件名带时间戳和随机段，避免覆盖同名文件
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Save(name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Ext(name))
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}
