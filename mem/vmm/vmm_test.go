package vmm

import "testing"

func TestMap2MIdentityRoundTrip(t *testing.T) {
	var d Directory
	d.Map2MIdentity(3, 0x400000+0x1234, true)

	entry := d.Entry(3)
	if !entry.Present || !entry.PageSize || !entry.Writable {
		t.Fatalf("entry = %+v, want present+pagesize+writable", entry)
	}
	if entry.Address != 0x400000 {
		t.Fatalf("address = 0x%x, want 0x400000 (aligned down)", entry.Address)
	}
}

func TestMap2MIdentityReadOnly(t *testing.T) {
	var d Directory
	d.Map2MIdentity(0, 0, false)
	entry := d.Entry(0)
	if entry.Writable {
		t.Fatalf("expected read-only entry")
	}
}

func TestUnmappedSlotIsNotPresent(t *testing.T) {
	var d Directory
	entry := d.Entry(5)
	if entry.Present {
		t.Fatalf("unmapped slot should not be present")
	}
}
