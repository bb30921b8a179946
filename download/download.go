// Package download fetches a Blender build archive and extracts it into the
// builds directory where executable discovery can find it.
package download

import (
	"archive/tar"
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"Blender-Object-Launcher/model"
	"Blender-Object-Launcher/types"

	"github.com/cavaliergopher/grab/v3"
	"github.com/google/uuid"
	"github.com/ulikunitz/xz"
)

// ErrCancelled is returned when the operator aborts a fetch.
var ErrCancelled = errors.New("operation cancelled")

// versionMetaFilename is the name of the metadata file saved in the
// extracted directory.
const versionMetaFilename = "version.json"

// progressPollRate is how often download progress is sampled from grab.
const progressPollRate = 200 * time.Millisecond

// Progress is a snapshot of a running fetch.
type Progress struct {
	State        types.FetchState
	CurrentBytes int64
	TotalBytes   int64
	// Speed is bytes per second; zero during extraction.
	Speed float64
}

// ProgressCallback receives fetch progress snapshots.
type ProgressCallback func(Progress)

// DownloadAndExtractBuild downloads the build archive into a staging
// directory, extracts it under buildsDir, writes version.json metadata into
// the extracted root, and returns that root. The staging directory and the
// archive are removed afterwards. Closing cancelCh aborts the fetch with
// ErrCancelled.
func DownloadAndExtractBuild(build model.Build, buildsDir string, progressCb ProgressCallback, cancelCh <-chan struct{}) (string, error) {
	// Stage the archive next to the builds so extraction stays on one
	// filesystem; the uuid keeps concurrent fetch attempts apart.
	stagingDir := filepath.Join(buildsDir, ".staging-"+uuid.NewString())
	if err := os.MkdirAll(stagingDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(stagingDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to clean staging dir %s: %v\n", stagingDir, err)
		}
	}()

	archivePath, err := downloadArchive(build.DownloadURL, stagingDir, progressCb, cancelCh)
	if err != nil {
		return "", err
	}

	select {
	case <-cancelCh:
		return "", ErrCancelled
	default:
	}

	rootDir, err := findRootDirInTarXz(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to find root directory in archive: %w", err)
	}
	extractedRootDir := filepath.Join(buildsDir, rootDir)

	// A leftover from an earlier fetch of the same build is replaced
	if _, err := os.Stat(extractedRootDir); err == nil {
		if err := os.RemoveAll(extractedRootDir); err != nil {
			return "", fmt.Errorf("failed to replace existing build dir %s: %w", extractedRootDir, err)
		}
	}

	if err := extractTarXz(archivePath, buildsDir, progressCb, cancelCh); err != nil {
		// Clean up the partially extracted tree
		if remErr := os.RemoveAll(extractedRootDir); remErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cleanup partial extraction dir %s: %v\n", extractedRootDir, remErr)
		}
		if errors.Is(err, ErrCancelled) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("extraction failed: %w", err)
	}

	if err := saveVersionMetadata(build, extractedRootDir); err != nil {
		return extractedRootDir, fmt.Errorf("metadata save failed: %w", err)
	}

	return extractedRootDir, nil
}

// downloadArchive runs a grab transfer into destDir, polling progress until
// the transfer completes or is cancelled. Returns the archive path.
func downloadArchive(url, destDir string, progressCb ProgressCallback, cancelCh <-chan struct{}) (string, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := grab.NewRequest(destDir, url)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}
	req = req.WithContext(ctx)

	client := grab.NewClient()
	resp := client.Do(req)

	ticker := time.NewTicker(progressPollRate)
	defer ticker.Stop()

	report := func() {
		if progressCb != nil {
			progressCb(Progress{
				State:        types.StateDownloading,
				CurrentBytes: resp.BytesComplete(),
				TotalBytes:   resp.Size(),
				Speed:        resp.BytesPerSecond(),
			})
		}
	}
	report()

poll:
	for {
		select {
		case <-ticker.C:
			report()
		case <-cancelCh:
			cancel()
			<-resp.Done
			return "", ErrCancelled
		case <-resp.Done:
			break poll
		}
	}

	if err := resp.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("download failed: %w", err)
	}
	report()

	return resp.Filename, nil
}

// progressReader tracks compressed bytes consumed by the extractor so
// extraction progress can be estimated from archive size.
type progressReader struct {
	io.Reader
	current  int64
	total    int64
	callback ProgressCallback
	cancelCh <-chan struct{}

	lastReportAt   int64
	minReportBytes int64
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	select {
	case <-pr.cancelCh:
		return 0, ErrCancelled
	default:
	}

	n, err = pr.Reader.Read(p)
	pr.current += int64(n)

	if pr.callback != nil && (pr.current-pr.lastReportAt >= pr.minReportBytes || pr.current == pr.total) {
		pr.callback(Progress{
			State:        types.StateExtracting,
			CurrentBytes: pr.current,
			TotalBytes:   pr.total,
		})
		pr.lastReportAt = pr.current
	}
	return
}

// extractTarXz extracts a .tar.xz archive into destDir with progress
// updates based on compressed bytes read.
func extractTarXz(archivePath, destDir string, progressCb ProgressCallback, cancelCh <-chan struct{}) error {
	fileInfo, err := os.Stat(archivePath)
	if err != nil {
		return fmt.Errorf("failed to stat archive file: %w", err)
	}

	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	const bufferSize = 4 * 1024 * 1024

	pr := &progressReader{
		Reader:         bufio.NewReaderSize(file, bufferSize),
		total:          fileInfo.Size(),
		callback:       progressCb,
		cancelCh:       cancelCh,
		minReportBytes: 256 * 1024,
	}

	xzReader, err := xz.NewReader(pr)
	if err != nil {
		return fmt.Errorf("failed to create xz reader: %w", err)
	}

	tarReader := tar.NewReader(bufio.NewReaderSize(xzReader, bufferSize))
	copyBuffer := make([]byte, bufferSize)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				return ErrCancelled
			}
			return fmt.Errorf("error reading tar entry: %w", err)
		}

		targetPath, err := sanitizeEntryPath(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("failed to create dir %s: %w", targetPath, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0750); err != nil {
				return fmt.Errorf("failed to create parent dir for %s: %w", targetPath, err)
			}
			outFile, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("failed to create file %s: %w", targetPath, err)
			}
			if _, err := io.CopyBuffer(outFile, tarReader, copyBuffer); err != nil {
				outFile.Close()
				if errors.Is(err, ErrCancelled) {
					return ErrCancelled
				}
				return fmt.Errorf("failed to write file %s: %w", targetPath, err)
			}
			if err := outFile.Close(); err != nil {
				return fmt.Errorf("failed to close file %s: %w", targetPath, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0750); err != nil {
				return fmt.Errorf("failed to create parent dir for symlink %s: %w", targetPath, err)
			}
			if _, err := os.Lstat(targetPath); err == nil {
				if err := os.Remove(targetPath); err != nil {
					return fmt.Errorf("failed to remove existing file/link at %s: %w", targetPath, err)
				}
			}
			if err := os.Symlink(header.Linkname, targetPath); err != nil {
				return fmt.Errorf("failed to create symlink %s -> %s: %w", targetPath, header.Linkname, err)
			}
		}
	}

	if progressCb != nil {
		progressCb(Progress{
			State:        types.StateExtracting,
			CurrentBytes: fileInfo.Size(),
			TotalBytes:   fileInfo.Size(),
		})
	}

	return nil
}

// sanitizeEntryPath joins an archive entry name under destDir, rejecting
// entries that would escape it.
func sanitizeEntryPath(destDir, name string) (string, error) {
	targetPath := filepath.Join(destDir, name)
	if !strings.HasPrefix(targetPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination directory", name)
	}
	return targetPath, nil
}

// findRootDirInTarXz peeks into the archive to find the root directory name.
func findRootDirInTarXz(archivePath string) (string, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	xzReader, err := xz.NewReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to create xz reader: %w", err)
	}

	header, err := tar.NewReader(xzReader).Next()
	if err != nil {
		if err == io.EOF {
			return "", fmt.Errorf("empty archive")
		}
		return "", fmt.Errorf("error reading tar header: %w", err)
	}

	root, _, _ := strings.Cut(strings.TrimPrefix(header.Name, "./"), "/")
	if root == "" {
		return "", fmt.Errorf("no root directory found in archive")
	}
	return root, nil
}

// saveVersionMetadata saves the build info as version.json inside the
// extracted directory.
func saveVersionMetadata(build model.Build, extractedDir string) error {
	metaPath := filepath.Join(extractedDir, versionMetaFilename)

	if build.BuildDate.Time().IsZero() {
		build.BuildDate = model.Timestamp(time.Now())
	}

	jsonData, err := json.MarshalIndent(build, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal build metadata: %w", err)
	}

	if err := os.WriteFile(metaPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", versionMetaFilename, err)
	}
	return nil
}
