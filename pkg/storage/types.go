package storage

import (
	"path"
)

type DiskStorage struct {
	RootFolder string
}

func NewDiskStorage(rootFolder string) *DiskStorage {
	return &DiskStorage{
		RootFolder: rootFolder,
	}
}

// GetFileName resolves name inside the root folder. Absolute names are used
// as is.
func (ds *DiskStorage) GetFileName(name string) string {
	if path.IsAbs(name) || ds.RootFolder == "" {
		return name
	}
	return path.Join(ds.RootFolder, name)
}
