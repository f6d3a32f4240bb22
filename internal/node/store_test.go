package node

import "testing"

func TestBackupFile(t *testing.T) {
	t.Run("missing file loads as empty", func(t *testing.T) {
		b, err := newBackupFile(t.TempDir())
		if err != nil {
			t.Fatalf("newBackupFile: %v", err)
		}
		defer b.close()

		store, err := b.load()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(store) != 0 {
			t.Errorf("expected empty store, got %d entries", len(store))
		}
	})

	t.Run("write then reload round-trips", func(t *testing.T) {
		dir := t.TempDir()

		b, err := newBackupFile(dir)
		if err != nil {
			t.Fatalf("newBackupFile: %v", err)
		}

		snapshot := map[string]value{
			"k1": {Data: "v1", Version: Version{Coordinator: "a:1", Seq: 1}},
			"k2": {Data: "v2", Version: Version{Coordinator: "a:1", Seq: 2}},
		}
		b.asyncPersist(snapshot)
		b.close() // close drains the jobs channel, guaranteeing the write lands

		b2, err := newBackupFile(dir)
		if err != nil {
			t.Fatalf("newBackupFile (reload): %v", err)
		}
		defer b2.close()

		reloaded, err := b2.load()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(reloaded) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(reloaded))
		}
		if reloaded["k1"].Data != "v1" || reloaded["k2"].Data != "v2" {
			t.Errorf("reloaded data mismatch: %+v", reloaded)
		}
	})

	t.Run("asyncPersist drops snapshots when the queue is full instead of blocking", func(t *testing.T) {
		b, err := newBackupFile(t.TempDir())
		if err != nil {
			t.Fatalf("newBackupFile: %v", err)
		}
		defer b.close()

		// Enough sequential calls to exceed the queue's buffer size
		// should never block the caller.
		for i := 0; i < 32; i++ {
			b.asyncPersist(map[string]value{"k": {Data: "v"}})
		}
	})
}
