package exec

import (
	"io"
	"os"

	"scout/internal/pool"
	"scout/internal/scerr"
)

// Direction is the SFTP transfer direction for Beam.
type Direction string

const (
	Upload   Direction = "upload"
	Download Direction = "download"
	Auto     Direction = "auto"
)

// TransferResult is the outcome of an SFTP transfer.
type TransferResult struct {
	Direction        Direction
	BytesTransferred int64
	OK               bool
	Message          string
}

// Beam moves a file between the local machine and a remote host over the
// session's SFTP subsystem, per spec.md §4.4. direction=auto uploads when
// the local path exists and downloads otherwise. The SFTP client is the
// session's cached, connection-scoped one: Beam closes the local and
// remote files it opens on every exit path, but does not close the client,
// which stays open until the session itself is closed.
func Beam(sess pool.Session, localPath, remotePath string, direction Direction) (TransferResult, error) {
	remotePath, err := boundedPath(remotePath)
	if err != nil {
		return TransferResult{}, err
	}

	resolved := direction
	if resolved == Auto {
		if _, statErr := os.Stat(localPath); statErr == nil {
			resolved = Upload
		} else {
			resolved = Download
		}
	}

	client, err := sess.SFTP()
	if err != nil {
		return TransferResult{}, scerr.Wrap(scerr.KindTransfer, "open sftp subsystem", err)
	}

	switch resolved {
	case Upload:
		local, err := os.Open(localPath)
		if err != nil {
			return TransferResult{}, scerr.Wrap(scerr.KindTransfer, "open local file", err)
		}
		defer local.Close()

		remote, err := client.Create(remotePath)
		if err != nil {
			return TransferResult{}, scerr.Wrap(scerr.KindTransfer, "create remote file", err)
		}
		defer remote.Close()

		n, err := io.Copy(remote, local)
		if err != nil {
			return TransferResult{Direction: Upload, BytesTransferred: n, OK: false, Message: err.Error()}, nil
		}
		return TransferResult{Direction: Upload, BytesTransferred: n, OK: true, Message: "uploaded"}, nil

	case Download:
		remote, err := client.Open(remotePath)
		if err != nil {
			return TransferResult{}, scerr.Wrap(scerr.KindTransfer, "open remote file", err)
		}
		defer remote.Close()

		local, err := os.Create(localPath)
		if err != nil {
			return TransferResult{}, scerr.Wrap(scerr.KindTransfer, "create local file", err)
		}
		defer local.Close()

		n, err := io.Copy(local, remote)
		if err != nil {
			return TransferResult{Direction: Download, BytesTransferred: n, OK: false, Message: err.Error()}, nil
		}
		return TransferResult{Direction: Download, BytesTransferred: n, OK: true, Message: "downloaded"}, nil

	default:
		return TransferResult{}, scerr.New(scerr.KindValidation, "unknown transfer direction: "+string(direction))
	}
}
