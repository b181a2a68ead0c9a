package models

import "testing"

func TestDocument_ValueScan(t *testing.T) {
	doc := Document{"name": "Dr. A", "rating": 4.5, "availableDays": []interface{}{"Monday"}}
	v, err := doc.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var back Document
	if err := back.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	if back["name"] != "Dr. A" || back["rating"] != 4.5 {
		t.Errorf("unexpected document %v", back)
	}
}

func TestDocument_ScanNil(t *testing.T) {
	var d Document
	if err := d.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || len(d) != 0 {
		t.Errorf("expected empty document, got %#v", d)
	}
}

func TestDocument_ScanUnsupported(t *testing.T) {
	var d Document
	if err := d.Scan(42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestDocument_NilValue(t *testing.T) {
	var d Document
	v, err := d.Value()
	if err != nil || v != "{}" {
		t.Errorf("expected empty object, got %v %v", v, err)
	}
}

func TestDocument_Merge(t *testing.T) {
	d := Document{"name": "Dr. A", "suspended": false}
	merged := d.Merge(map[string]interface{}{"suspended": true, "bio": "x"})

	if merged["suspended"] != true || merged["bio"] != "x" || merged["name"] != "Dr. A" {
		t.Errorf("unexpected merge %v", merged)
	}
	if d["suspended"] != false {
		t.Error("merge must not modify the receiver")
	}
}

func TestUser_HasPermission(t *testing.T) {
	u := User{Role: Role{Name: RoleAdmin, Permissions: DefaultPermissions()}}
	if !u.HasPermission(ResourceDoctors, ActionDelete) {
		t.Error("expected admin to delete doctors")
	}
	if u.HasPermission("appointments", ActionRead) {
		t.Error("unexpected permission on unknown resource")
	}
	if len(DefaultPermissions()) != 12 {
		t.Errorf("expected 12 default permissions, got %d", len(DefaultPermissions()))
	}
}
