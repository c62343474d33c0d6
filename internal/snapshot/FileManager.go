package snapshot

import (
	json "github.com/goccy/go-json"
	"os"
	"smd/internal/models"
	"smd/internal/providers"
	"smd/internal/services"
	"smd/internal/snapshot/interfaces"
)

// FileManager persists the last aggregation to disk so a restarted
// daemon can serve data before its first gateway round-trip.
type FileManager struct {
	service    services.DashboardServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.DashboardServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	snap := f.service.GetSnapshot()

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	jsonData, err := f.compressor.Decompress(data)
	if err != nil {
		// Uncompressed snapshots predate the zstd format.
		f.logger.Warnf(providers.TypeApp, "Snapshot not zstd-compressed, trying plain JSON")
		jsonData = data
	}

	var snap models.Snapshot
	if err := json.Unmarshal(jsonData, &snap); err != nil {
		f.logger.Warnf(providers.TypeApp, "Snapshot unreadable, starting empty: %s", err)
		return err
	}

	f.service.RestoreSnapshot(&snap)
	f.logger.Infof(providers.TypeApp, "Restored snapshot from %s (saved %s, %d ranges)", fileName, snap.SavedAt.Format("2006-01-02 15:04:05"), len(snap.Items))
	return nil
}
