/*
Copyright (C) 2026  MemCP Contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package storagekind

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
)

func init() {
	RegisterBackend("s3", newS3Instance)
}

// S3Config is the Virtual("s3") backend's config payload: access keys,
// region, a custom endpoint for MinIO-compatible stores, bucket, prefix.
type S3Config struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint"`
	Bucket          string `json:"bucket"`
	Prefix          string `json:"prefix"`
	ForcePathStyle  bool   `json:"force_path_style"`
	MaxSize         string `json:"max_size"`
}

type s3Instance struct {
	cfg     S3Config
	client  *s3.Client
	maxSize ids.MaxSize

	mu       sync.Mutex
	nextSeg  ids.SegmentID
	sizes    map[ids.SegmentID]ids.Size
	refs     map[ids.SegmentID]int
	used     ids.Size
}

func newS3Instance(raw json.RawMessage) (Instance, error) {
	var cfg S3Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, &errs.LoadFailed{Cause: err}
	}
	maxSize, err := parseMaxSize(cfg.MaxSize)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("virtual(s3): load aws config: %w", err)
	}
	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = aws.String(cfg.Endpoint) })
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}
	client := s3.NewFromConfig(awsCfg, s3Opts...)

	return &s3Instance{
		cfg:     cfg,
		client:  client,
		maxSize: maxSize,
		sizes:   make(map[ids.SegmentID]ids.Size),
		refs:    make(map[ids.SegmentID]int),
	}, nil
}

func (s *s3Instance) Kind() core.Kind      { return core.KindVirtual }
func (s *s3Instance) SizeMax() ids.MaxSize { return s.maxSize }

func (s *s3Instance) SizeUsed() ids.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used
}

func (s *s3Instance) key(seg ids.SegmentID) string {
	return fmt.Sprintf("%s/segment-%d", s.cfg.Prefix, seg)
}

func (s *s3Instance) CreateSegment(size ids.Size, onRemove OnRemove) (ids.SegmentID, error) {
	s.mu.Lock()
	if !s.maxSize.Allows(s.used, size) {
		s.mu.Unlock()
		return 0, errs.ErrOutOfQuota
	}
	s.nextSeg++
	seg := s.nextSeg
	s.mu.Unlock()

	zero := make([]byte, size)
	_, err := s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(seg)),
		Body:   bytes.NewReader(zero),
	})
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.sizes[seg] = size
	s.used += size
	s.mu.Unlock()
	return seg, nil
}

func (s *s3Instance) RemoveSegment(seg ids.SegmentID) error {
	s.mu.Lock()
	size, ok := s.sizes[seg]
	if !ok {
		s.mu.Unlock()
		return errs.ErrSegmentGone
	}
	if s.refs[seg] > 0 {
		s.mu.Unlock()
		return errs.ErrSegmentBusy
	}
	delete(s.sizes, seg)
	delete(s.refs, seg)
	s.used -= size
	s.mu.Unlock()

	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(seg)),
	})
	return err
}

func (s *s3Instance) Description(seg ids.SegmentID, access core.Access, r ids.Range) (core.Payload, error) {
	s.mu.Lock()
	size, ok := s.sizes[seg]
	if !ok {
		s.mu.Unlock()
		return nil, errs.ErrSegmentGone
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(size)}).Contains(r.Begin, r.Length()) {
		s.mu.Unlock()
		return nil, errs.ErrOutOfRange
	}
	s.refs[seg]++
	s.mu.Unlock()
	handle := []byte(fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, s.key(seg)))
	return core.VirtualPayload{Handle: handle}, nil
}

func (s *s3Instance) ReleaseDescription(seg ids.SegmentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs[seg] > 0 {
		s.refs[seg]--
	}
}

// ReadFile/WriteFile perform whole-object read-modify-write since S3 has
// no in-place byte-range write.
func (s *s3Instance) ReadFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	size, err := s.segmentSize(seg)
	if err != nil {
		return 0, err
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(size)}).Contains(offset, r.Length()) {
		return 0, errs.ErrOutOfRange
	}
	resp, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(seg)),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	f, err := openExternal(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	region, err := readExternalRegion(f, r)
	if err != nil {
		return 0, err
	}
	n := copy(data[offset:], region)

	_, err = s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(seg)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return 0, err
	}
	return ids.Size(n), nil
}

func (s *s3Instance) WriteFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	size, err := s.segmentSize(seg)
	if err != nil {
		return 0, err
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(size)}).Contains(offset, r.Length()) {
		return 0, errs.ErrOutOfRange
	}
	resp, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(seg)),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	n := r.Length()
	if int64(offset)+int64(n) > int64(len(data)) {
		n = ids.Size(len(data)) - ids.Size(offset)
	}
	return writeExternalRegion(path, r.Begin, data[offset:int64(offset)+int64(n)])
}

func (s *s3Instance) segmentSize(seg ids.SegmentID) (ids.Size, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	size, ok := s.sizes[seg]
	if !ok {
		return 0, errs.ErrSegmentGone
	}
	return size, nil
}

func (s *s3Instance) Destroy() {
	s.mu.Lock()
	segs := make([]ids.SegmentID, 0, len(s.sizes))
	for seg := range s.sizes {
		segs = append(segs, seg)
	}
	s.mu.Unlock()
	for _, seg := range segs {
		s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(s.key(seg)),
		})
	}
	s.mu.Lock()
	s.sizes = make(map[ids.SegmentID]ids.Size)
	s.refs = make(map[ids.SegmentID]int)
	s.used = 0
	s.mu.Unlock()
}
