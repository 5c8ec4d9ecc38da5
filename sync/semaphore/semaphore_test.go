// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package semaphore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestDo(t *testing.T) {
	ctx := context.Background()
	s := New("test-do", 2)

	var cur, max atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Do(ctx, func(ctx context.Context) error {
				n := cur.Add(1)
				defer cur.Add(-1)
				for {
					m := max.Load()
					if n <= m || max.CompareAndSwap(m, n) {
						return nil
					}
				}
			})
			if err != nil {
				t.Errorf("Do=%v; want nil", err)
			}
		}()
	}
	wg.Wait()
	if got := max.Load(); got > 2 {
		t.Errorf("max concurrent=%d; want <= 2", got)
	}
	if got := s.NumRequests(); got != 10 {
		t.Errorf("NumRequests=%d; want 10", got)
	}
	if got := s.NumServs(); got != 0 {
		t.Errorf("NumServs=%d; want 0", got)
	}
}

func TestWaitAcquire_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New("test-cancel", 1)

	done, err := s.WaitAcquire(ctx)
	if err != nil {
		t.Fatalf("WaitAcquire=%v; want nil", err)
	}
	cancel()
	_, err = s.WaitAcquire(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("WaitAcquire=%v; want context.Canceled", err)
	}
	done()
	if got := s.NumServs(); got != 0 {
		t.Errorf("NumServs=%d; want 0", got)
	}
}

func TestLookup(t *testing.T) {
	s := New("test-lookup", 3)
	if got := Lookup("test-lookup"); got != s {
		t.Errorf("Lookup=%p; want %p", got, s)
	}
	if got := Lookup("no-such-semaphore"); got != nil {
		t.Errorf("Lookup=%v; want nil", got)
	}
	if got := s.Capacity(); got != 3 {
		t.Errorf("Capacity=%d; want 3", got)
	}
}
