// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package archive reads and writes the encrypted vault archive file.
//
// On disk an archive is a single file:
//
//	magic "GVK1" | format version (1 byte) | salt (16 bytes) | AES-256-GCM(gzip(tar(repository)))
//
// The tar stream holds the plaintext repository tree (metadata.yml,
// credentials/, types/). The GCM blob starts with its 12-byte nonce, so
// everything after the salt is opaque without the master password.
package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
)

const (
	// formatVersion is the archive container version, bumped only when
	// the header layout changes. Independent of the repository format
	// version stored in metadata.yml.
	formatVersion byte = 1

	saltLen = 16
)

// magic identifies a vault archive file. Chosen to be invalid UTF-16 and
// not collide with common container formats.
var magic = []byte("GVK1")

// Codec packs a plaintext repository directory into an encrypted archive
// file and back. Implementations must produce a file that survives a
// byte-for-byte copy; no state outside the file itself.
type Codec interface {
	// Pack serializes dir into an encrypted archive at path, replacing
	// any existing file atomically (write-temp-then-rename).
	Pack(ctx context.Context, dir, path, password string) error

	// Unpack decrypts the archive at path and extracts the repository
	// tree into dir, which must already exist and be empty or absent.
	// Returns ErrInvalidFormat for a non-archive file and
	// ErrWrongPassword when decryption fails.
	Unpack(ctx context.Context, path, dir, password string) error

	// Sniff checks whether path looks like a vault archive without
	// attempting decryption. Returns nil, ErrInvalidFormat, or an I/O
	// error.
	Sniff(path string) error
}

// AESCodec is the production [Codec]: tar + gzip inside AES-256-GCM with
// an Argon2id-derived key.
type AESCodec struct {
	keys crypto.KeyChainService
}

// NewAESCodec constructs an [AESCodec] on top of the given key chain.
func NewAESCodec(keys crypto.KeyChainService) *AESCodec {
	return &AESCodec{keys: keys}
}

// Pack implements [Codec].
func (c *AESCodec) Pack(ctx context.Context, dir, path, password string) error {
	plaintext, err := tarDirectory(ctx, dir)
	if err != nil {
		return fmt.Errorf("pack %s: %w", dir, err)
	}

	salt, err := c.keys.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	key := c.keys.DeriveKey(password, salt)

	blob, err := c.keys.Seal(key, plaintext)
	if err != nil {
		return fmt.Errorf("encrypt archive: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(magic) + 1 + saltLen + len(blob))
	buf.Write(magic)
	buf.WriteByte(formatVersion)
	buf.Write(salt)
	buf.Write(blob)

	return writeFileAtomic(path, buf.Bytes())
}

// Unpack implements [Codec].
func (c *AESCodec) Unpack(ctx context.Context, path, dir, password string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}

	salt, blob, err := splitHeader(raw)
	if err != nil {
		return err
	}

	key := c.keys.DeriveKey(password, salt)
	plaintext, err := c.keys.Open(key, blob)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthFailed) {
			return ErrWrongPassword
		}
		return fmt.Errorf("decrypt archive: %w", err)
	}

	if err := untarDirectory(ctx, plaintext, dir); err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}
	return nil
}

// Sniff implements [Codec].
func (c *AESCodec) Sniff(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("%w: file too short", ErrInvalidFormat)
	}
	if !bytes.Equal(header[:len(magic)], magic) {
		return fmt.Errorf("%w: bad magic", ErrInvalidFormat)
	}
	if header[len(magic)] != formatVersion {
		return fmt.Errorf("%w: unsupported container version %d", ErrInvalidFormat, header[len(magic)])
	}
	return nil
}

// splitHeader validates the fixed header and returns the salt and the
// encrypted blob that follows it.
func splitHeader(raw []byte) (salt, blob []byte, err error) {
	headerLen := len(magic) + 1 + saltLen
	if len(raw) < headerLen {
		return nil, nil, fmt.Errorf("%w: file too short", ErrInvalidFormat)
	}
	if !bytes.Equal(raw[:len(magic)], magic) {
		return nil, nil, fmt.Errorf("%w: bad magic", ErrInvalidFormat)
	}
	if v := raw[len(magic)]; v != formatVersion {
		return nil, nil, fmt.Errorf("%w: unsupported container version %d", ErrInvalidFormat, v)
	}
	salt = raw[len(magic)+1 : headerLen]
	blob = raw[headerLen:]
	return salt, blob, nil
}

// tarDirectory serializes dir into a gzip-compressed tar stream. Entry
// names are slash-separated paths relative to dir, so archives are
// portable across operating systems.
func tarDirectory(ctx context.Context, dir string) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			hdr := &tar.Header{
				Name:     rel + "/",
				Mode:     0o700,
				Typeflag: tar.TypeDir,
				ModTime:  info.ModTime(),
			}
			return tw.WriteHeader(hdr)
		case info.Mode().IsRegular():
			hdr := &tar.Header{
				Name:    rel,
				Mode:    0o600,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			_, err = io.Copy(tw, f)
			f.Close()
			return err
		default:
			// Symlinks and devices have no business in a vault.
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// untarDirectory extracts a gzip-compressed tar stream into dir. Entry
// names are sanitized so a crafted archive cannot escape dir.
func untarDirectory(ctx context.Context, data []byte, dir string) error {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: not a gzip stream", ErrInvalidFormat)
	}
	defer gr.Close()

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: broken tar stream", ErrInvalidFormat)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(dir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o700); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
			if err != nil {
				return err
			}
			_, err = io.Copy(f, tr) //nolint:gosec // size is bounded by the decrypted blob
			closeErr := f.Close()
			if err != nil {
				return err
			}
			if closeErr != nil {
				return closeErr
			}
		default:
			// Skip anything that is not a file or directory.
		}
	}
}

// safeJoin joins name onto dir, rejecting absolute paths and traversal.
func safeJoin(dir, name string) (string, error) {
	name = filepath.ToSlash(name)
	if strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: unsafe entry path %q", ErrInvalidFormat, name)
	}
	return filepath.Join(dir, filepath.FromSlash(name)), nil
}

// writeFileAtomic writes data to a temp file next to path, then renames
// it into place. Readers never observe a half-written archive.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close archive: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace archive: %w", err)
	}
	return nil
}
