package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/wire"
	"golang.org/x/sys/unix"
)

// applyCreationAttrs best-effort tags a freshly created file with its
// file_id as an extended attribute and requests copy-on-write be
// disabled for it (spec.md §4.8). Neither is supported on every
// filesystem; failures here are not fatal, since they only affect
// operator tooling (offline file identification) and defrag behavior,
// never correctness of the on-disk format itself.
func applyCreationAttrs(f *os.File, fileID [16]byte) {
	_ = unix.Fsetxattr(int(f.Fd()), "user.sdjournal.file_id", fileID[:], 0)
	disableCOW(f)
}

// disableCOW sets FS_NOCOW_FL via the generic filesystem ioctl. This is
// meaningful on btrfs; everywhere else the ioctl fails with ENOTTY or
// EINVAL and is silently ignored.
func disableCOW(f *os.File) {
	flags, err := unix.IoctlGetInt(int(f.Fd()), unix.FS_IOC_GETFLAGS)
	if err != nil {
		return
	}
	_ = unix.IoctlSetInt(int(f.Fd()), unix.FS_IOC_SETFLAGS, flags|unix.FS_NOCOW_FL)
}

// archiveName builds the rotated file name per spec.md §6.4:
// <basename>@<seqnum-id>-<head-seqnum>-<head-realtime>.journal
func archiveName(path string, h *wire.Header) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	base = base[:len(base)-len(filepath.Ext(base))]

	name := fmt.Sprintf("%s@%x-%016x-%016x.journal", base, h.SeqnumID, h.HeadEntrySeqnum, h.HeadEntryRealtime)
	return filepath.Join(dir, name)
}

// renameAside moves a file that failed verification out of the way, per
// OpenReliably's fallback-to-fresh-file behavior: <basename>~<timestamp>.
func renameAside(path string) (string, error) {
	aside := fmt.Sprintf("%s~%d", path, time.Now().UnixNano())
	if err := os.Rename(path, aside); err != nil {
		return "", errs.ErrIO
	}
	return aside, nil
}

// Rotate renames the current file to its archive name, marks the
// receiver ARCHIVED, and opens a fresh file at the original path
// inheriting seqnum_id and the tail entry's seqnum/timestamps so
// sequence numbers stay monotonic across the rotation (spec.md §4.7).
// Callers should Close the receiver once they are done draining it.
func (f *File) Rotate() (*File, error) {
	if f.cfg.readOnly {
		return nil, errs.ErrReadOnly
	}

	f.mu.Lock()
	h := f.header
	f.mu.Unlock()

	archivePath := archiveName(f.path, &h)
	if err := os.Rename(f.path, archivePath); err != nil {
		return nil, errs.ErrIO
	}
	disableCOW(f.file)
	f.machine.MarkArchived()

	return openFresh(f.path, f.cfg, &h)
}

// Close transitions the file offline (flushing pending state) and then
// releases its mmap windows and file descriptor. Safe to call once; a
// second call returns errs.ErrClosed.
func (f *File) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return errs.ErrClosed
	}

	var firstErr error
	if !f.cfg.readOnly {
		if err := f.machine.SetOffline(true); err != nil {
			firstErr = err
		}
	}
	if f.cache.Sigbus() && firstErr == nil {
		firstErr = errs.ErrIO
	}
	if err := f.cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := f.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	f.logger.Debug("journal file closed", zapError(firstErr)...)
	return firstErr
}
