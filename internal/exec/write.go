package exec

import (
	"scout/internal/pool"
	"scout/internal/scerr"
	"scout/internal/syntax"
)

// WriteResult reports the outcome of WriteFile, including the syntax
// check run before the bytes ever leave the process.
type WriteResult struct {
	BytesWritten int
	Validation   *syntax.Result // nil when the file type has no checker or validation was skipped
}

// WriteFile validates content against path's detected syntax (unless
// skipValidate is set) and, only if that check passes, writes it to the
// remote host over SFTP — this is the supplemental write/validate
// executor, adapted from the teacher's server-side syntax checking so a
// malformed config never reaches disk.
func WriteFile(sess pool.Session, path, content string, skipValidate bool) (WriteResult, error) {
	path, err := boundedPath(path)
	if err != nil {
		return WriteResult{}, err
	}

	var result *syntax.Result
	if !skipValidate {
		if fileType := syntax.DetectType(path); fileType != "" {
			result = syntax.Check(content, fileType)
			if result != nil && !result.Valid {
				return WriteResult{Validation: result}, scerr.New(scerr.KindValidation, result.Summary(path))
			}
		}
	}

	client, err := sess.SFTP()
	if err != nil {
		return WriteResult{}, scerr.Wrap(scerr.KindTransfer, "open sftp subsystem", err)
	}

	remote, err := client.Create(path)
	if err != nil {
		return WriteResult{}, scerr.Wrap(scerr.KindTransfer, "create remote file", err)
	}
	defer remote.Close()

	n, err := remote.Write([]byte(content))
	if err != nil {
		return WriteResult{}, scerr.Wrap(scerr.KindTransfer, "write remote file", err)
	}

	return WriteResult{BytesWritten: n, Validation: result}, nil
}
