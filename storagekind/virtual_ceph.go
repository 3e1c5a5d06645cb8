//go:build ceph

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
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ceph/go-ceph/rados"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
)

func init() {
	RegisterBackend("ceph", newCephInstance)
}

// CephConfig is the Virtual("ceph") backend's config payload: username,
// cluster name, conf file, pool, prefix.
type CephConfig struct {
	UserName    string `json:"username"`
	ClusterName string `json:"cluster"`
	ConfFile    string `json:"conf_file"`
	Pool        string `json:"pool"`
	Prefix      string `json:"prefix"`
	MaxSize     string `json:"max_size"`
}

type cephInstance struct {
	cfg     CephConfig
	conn    *rados.Conn
	ioctx   *rados.IOContext
	maxSize ids.MaxSize

	mu      sync.Mutex
	nextSeg ids.SegmentID
	sizes   map[ids.SegmentID]ids.Size
	refs    map[ids.SegmentID]int
	used    ids.Size
}

func newCephInstance(raw json.RawMessage) (Instance, error) {
	var cfg CephConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, &errs.LoadFailed{Cause: err}
	}
	maxSize, err := parseMaxSize(cfg.MaxSize)
	if err != nil {
		return nil, err
	}

	conn, err := rados.NewConnWithClusterAndUser(cfg.ClusterName, cfg.UserName)
	if err != nil {
		return nil, err
	}
	if cfg.ConfFile != "" {
		if err := conn.ReadConfigFile(cfg.ConfFile); err != nil {
			return nil, err
		}
	} else {
		_ = conn.ReadDefaultConfigFile()
	}
	if err := conn.Connect(); err != nil {
		return nil, err
	}
	ioctx, err := conn.OpenIOContext(cfg.Pool)
	if err != nil {
		conn.Shutdown()
		return nil, err
	}

	return &cephInstance{
		cfg:     cfg,
		conn:    conn,
		ioctx:   ioctx,
		maxSize: maxSize,
		sizes:   make(map[ids.SegmentID]ids.Size),
		refs:    make(map[ids.SegmentID]int),
	}, nil
}

func (c *cephInstance) Kind() core.Kind      { return core.KindVirtual }
func (c *cephInstance) SizeMax() ids.MaxSize { return c.maxSize }

func (c *cephInstance) SizeUsed() ids.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

func (c *cephInstance) oid(seg ids.SegmentID) string {
	return fmt.Sprintf("%s-segment-%d", c.cfg.Prefix, seg)
}

func (c *cephInstance) CreateSegment(size ids.Size, onRemove OnRemove) (ids.SegmentID, error) {
	c.mu.Lock()
	if !c.maxSize.Allows(c.used, size) {
		c.mu.Unlock()
		return 0, errs.ErrOutOfQuota
	}
	c.nextSeg++
	seg := c.nextSeg
	c.mu.Unlock()

	if err := c.ioctx.Truncate(c.oid(seg), uint64(size)); err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.sizes[seg] = size
	c.used += size
	c.mu.Unlock()
	return seg, nil
}

func (c *cephInstance) RemoveSegment(seg ids.SegmentID) error {
	c.mu.Lock()
	size, ok := c.sizes[seg]
	if !ok {
		c.mu.Unlock()
		return errs.ErrSegmentGone
	}
	if c.refs[seg] > 0 {
		c.mu.Unlock()
		return errs.ErrSegmentBusy
	}
	delete(c.sizes, seg)
	delete(c.refs, seg)
	c.used -= size
	c.mu.Unlock()
	return c.ioctx.Delete(c.oid(seg))
}

func (c *cephInstance) Description(seg ids.SegmentID, access core.Access, r ids.Range) (core.Payload, error) {
	c.mu.Lock()
	size, ok := c.sizes[seg]
	if !ok {
		c.mu.Unlock()
		return nil, errs.ErrSegmentGone
	}
	if !(ids.Range{Begin: 0, End: ids.Offset(size)}).Contains(r.Begin, r.Length()) {
		c.mu.Unlock()
		return nil, errs.ErrOutOfRange
	}
	c.refs[seg]++
	c.mu.Unlock()
	handle := []byte(fmt.Sprintf("ceph://%s/%s", c.cfg.Pool, c.oid(seg)))
	return core.VirtualPayload{Handle: handle}, nil
}

func (c *cephInstance) ReleaseDescription(seg ids.SegmentID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refs[seg] > 0 {
		c.refs[seg]--
	}
}

func (c *cephInstance) ReadFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	f, err := openExternal(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	region, err := readExternalRegion(f, r)
	if err != nil {
		return 0, err
	}
	if err := c.ioctx.Write(c.oid(seg), region, uint64(offset)); err != nil {
		return 0, err
	}
	return ids.Size(len(region)), nil
}

func (c *cephInstance) WriteFile(seg ids.SegmentID, offset ids.Offset, path string, r ids.Range) (ids.Size, error) {
	buf := make([]byte, r.Length())
	n, err := c.ioctx.Read(c.oid(seg), buf, uint64(offset))
	if err != nil {
		return 0, err
	}
	return writeExternalRegion(path, r.Begin, buf[:n])
}

func (c *cephInstance) Destroy() {
	c.mu.Lock()
	segs := make([]ids.SegmentID, 0, len(c.sizes))
	for seg := range c.sizes {
		segs = append(segs, seg)
	}
	c.mu.Unlock()
	for _, seg := range segs {
		c.ioctx.Delete(c.oid(seg))
	}
	c.mu.Lock()
	c.sizes = make(map[ids.SegmentID]ids.Size)
	c.refs = make(map[ids.SegmentID]int)
	c.used = 0
	c.mu.Unlock()
}
