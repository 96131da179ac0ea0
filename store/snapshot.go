package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/openvenue/venue-core/record"
)

// SnapshotSchemaVersion is the current version of the snapshot schema.
// Increment this when the snapshot format changes in a backward-incompatible way.
const SnapshotSchemaVersion = 1

// SnapshotMetadata holds the global metadata for a snapshot (stored in metadata.json).
type SnapshotMetadata struct {
	SchemaVersion    int    `json:"schema_version"`
	Timestamp        int64  `json:"timestamp"` // Unix Nano
	RecordCount      int    `json:"record_count"`
	SnapshotChecksum uint32 `json:"snapshot_checksum"` // CRC32 of the entire snapshot.bin file
}

// SnapshotFileFooter is the footer structure stored at the end of snapshot.bin.
// Layout: [BinaryData...][FooterJSON][FooterLength(4 bytes)]
type SnapshotFileFooter struct {
	Records []RecordSegment `json:"records"`
}

// RecordSegment indexes one record's bytes within the snapshot binary file.
type RecordSegment struct {
	Key      string `json:"key"`
	Offset   int64  `json:"offset"`
	Length   int64  `json:"length"`
	Checksum uint32 `json:"checksum"`
}

// WriteSnapshot streams every stored record into outputDir as snapshot.bin
// plus metadata.json. Writes go to a temp directory first and land with an
// atomic rename.
func (s *Store) WriteSnapshot(outputDir string) (*SnapshotMetadata, error) {
	tmpDir := outputDir + ".tmp"
	if err := os.RemoveAll(tmpDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return nil, err
	}

	binPath := filepath.Join(tmpDir, "snapshot.bin")
	binFile, err := os.Create(binPath)
	if err != nil {
		return nil, err
	}

	segments := make([]RecordSegment, 0)
	currentOffset := int64(0)

	err = s.Scan(func(acc *record.Account) error {
		blob := encodeSnapshotRecord(acc)
		n, err := binFile.Write(blob)
		if err != nil {
			return err
		}

		segments = append(segments, RecordSegment{
			Key:      acc.Key.String(),
			Offset:   currentOffset,
			Length:   int64(n),
			Checksum: crc32.ChecksumIEEE(blob),
		})
		currentOffset += int64(n)
		return nil
	})
	if err != nil {
		binFile.Close()
		return nil, err
	}

	footer := SnapshotFileFooter{Records: segments}
	footerData, err := json.Marshal(footer)
	if err != nil {
		binFile.Close()
		return nil, err
	}

	if _, err := binFile.Write(footerData); err != nil {
		binFile.Close()
		return nil, err
	}

	// Footer length trailer (4 bytes, Big Endian).
	if len(footerData) > 4294967295 {
		binFile.Close()
		return nil, errors.New("store: footer too large")
	}
	footerLen := uint32(len(footerData))
	if err := binary.Write(binFile, binary.BigEndian, footerLen); err != nil {
		binFile.Close()
		return nil, err
	}

	if err := binFile.Sync(); err != nil {
		binFile.Close()
		return nil, err
	}
	if err := binFile.Close(); err != nil {
		return nil, err
	}

	snapshotChecksum, err := calculateFileCRC32(binPath)
	if err != nil {
		return nil, err
	}

	meta := &SnapshotMetadata{
		SchemaVersion:    SnapshotSchemaVersion,
		Timestamp:        time.Now().UnixNano(),
		RecordCount:      len(segments),
		SnapshotChecksum: snapshotChecksum,
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, err
	}
	metaPath := filepath.Join(tmpDir, "metadata.json")
	if err := os.WriteFile(metaPath, metaBytes, 0600); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(outputDir); err != nil {
		return nil, err
	}
	if err := os.Rename(tmpDir, outputDir); err != nil {
		return nil, err
	}

	return meta, nil
}

// RestoreSnapshot loads every record from a snapshot directory back into
// the store, verifying the full-file and per-segment checksums.
func (s *Store) RestoreSnapshot(inputDir string) (*SnapshotMetadata, error) {
	metaPath := filepath.Join(inputDir, "metadata.json")
	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta SnapshotMetadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, err
	}

	binPath := filepath.Join(inputDir, "snapshot.bin")
	binFile, err := os.Open(binPath)
	if err != nil {
		return nil, err
	}
	defer binFile.Close()

	fileChecksum, err := calculateFileCRC32(binPath)
	if err != nil {
		return nil, err
	}
	if fileChecksum != meta.SnapshotChecksum {
		return nil, errors.New("store: snapshot.bin checksum mismatch")
	}

	stat, err := binFile.Stat()
	if err != nil {
		return nil, err
	}
	fileSize := stat.Size()

	footerLenBytes := make([]byte, 4)
	if _, err := binFile.ReadAt(footerLenBytes, fileSize-4); err != nil {
		return nil, err
	}
	footerLen := binary.BigEndian.Uint32(footerLenBytes)

	footerOffset := fileSize - 4 - int64(footerLen)
	footerBytes := make([]byte, footerLen)
	if _, err := binFile.ReadAt(footerBytes, footerOffset); err != nil {
		return nil, err
	}

	var footer SnapshotFileFooter
	if err := json.Unmarshal(footerBytes, &footer); err != nil {
		return nil, err
	}

	for _, segment := range footer.Records {
		blob := make([]byte, segment.Length)
		if _, err := binFile.ReadAt(blob, segment.Offset); err != nil {
			return nil, err
		}
		if crc32.ChecksumIEEE(blob) != segment.Checksum {
			return nil, errors.New("store: checksum mismatch for record " + segment.Key)
		}

		acc, err := decodeSnapshotRecord(blob)
		if err != nil {
			return nil, err
		}
		if err := s.Put(acc); err != nil {
			return nil, err
		}
	}

	return &meta, nil
}

// snapshot record blob: [key:32][owner:32][balance:8][dataLen:4][data:...]
func encodeSnapshotRecord(acc *record.Account) []byte {
	blob := make([]byte, 32+32+8+4+len(acc.Data))
	copy(blob[0:32], acc.Key[:])
	copy(blob[32:64], acc.Owner[:])
	binary.LittleEndian.PutUint64(blob[64:72], acc.Balance)
	binary.LittleEndian.PutUint32(blob[72:76], uint32(len(acc.Data)))
	copy(blob[76:], acc.Data)
	return blob
}

func decodeSnapshotRecord(blob []byte) (*record.Account, error) {
	if len(blob) < 76 {
		return nil, errors.New("store: corrupt snapshot record")
	}
	dataLen := binary.LittleEndian.Uint32(blob[72:76])
	if int(dataLen) != len(blob)-76 {
		return nil, errors.New("store: corrupt snapshot record length")
	}

	acc := &record.Account{
		Key:     record.IDFromBytes(blob[0:32]),
		Owner:   record.IDFromBytes(blob[32:64]),
		Balance: binary.LittleEndian.Uint64(blob[64:72]),
		Data:    make([]byte, dataLen),
	}
	copy(acc.Data, blob[76:])
	return acc, nil
}

func calculateFileCRC32(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum32(), nil
}
