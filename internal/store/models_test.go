package store

import "testing"

func TestAppendFiles_SkipsDuplicateNames(t *testing.T) {
	inc := Incident{ID: "i1"}

	added := inc.AppendFiles(FileAttachment{Name: "xray.png", MimeType: "image/png", SizeBytes: 2048, ContentURL: "data:image/png;base64,AAAA"})
	if added != 1 || len(inc.Files) != 1 {
		t.Fatalf("Expected 1 file, got added=%d len=%d", added, len(inc.Files))
	}

	// Same name again: rejected, list length unchanged.
	added = inc.AppendFiles(FileAttachment{Name: "xray.png", MimeType: "image/png", SizeBytes: 4096, ContentURL: "data:image/png;base64,BBBB"})
	if added != 0 {
		t.Errorf("Expected duplicate to be skipped, added=%d", added)
	}
	if len(inc.Files) != 1 {
		t.Errorf("Expected attachment list length unchanged, got %d", len(inc.Files))
	}
	if inc.Files[0].SizeBytes != 2048 {
		t.Error("Duplicate add must not replace the existing attachment")
	}

	added = inc.AppendFiles(FileAttachment{Name: "invoice.pdf", MimeType: "application/pdf", SizeBytes: 100, ContentURL: "data:application/pdf;base64,CCCC"})
	if added != 1 || len(inc.Files) != 2 {
		t.Errorf("Expected distinct name to append, added=%d len=%d", added, len(inc.Files))
	}
}

func TestRemoveFile(t *testing.T) {
	inc := Incident{Files: []FileAttachment{
		{Name: "a.png"},
		{Name: "b.png"},
	}}

	if !inc.RemoveFile("a.png") {
		t.Fatal("Expected RemoveFile to report success")
	}
	if len(inc.Files) != 1 || inc.Files[0].Name != "b.png" {
		t.Errorf("Unexpected files after removal: %+v", inc.Files)
	}
	if inc.RemoveFile("missing.png") {
		t.Error("Expected RemoveFile to report false for unknown name")
	}
}

func TestAppDataValid(t *testing.T) {
	testCases := []struct {
		name  string
		data  AppData
		valid bool
	}{
		{name: "all collections present", data: AppData{Users: []User{}, Patients: []Patient{}, Incidents: []Incident{}}, valid: true},
		{name: "missing users", data: AppData{Patients: []Patient{}, Incidents: []Incident{}}, valid: false},
		{name: "missing patients", data: AppData{Users: []User{}, Incidents: []Incident{}}, valid: false},
		{name: "missing incidents", data: AppData{Users: []User{}, Patients: []Patient{}}, valid: false},
		{name: "zero value", data: AppData{}, valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.data.Valid(); got != tc.valid {
				t.Errorf("Valid() = %v, want %v", got, tc.valid)
			}
		})
	}
}

func TestIncidentClone_IsDeep(t *testing.T) {
	orig := Seed().Incidents[1] // i2 carries files and a next appointment
	clone := orig.Clone()

	clone.AppendFiles(FileAttachment{Name: "new.png"})
	if len(orig.Files) != 0 {
		t.Error("Clone shares the attachment slice with the original")
	}

	next := clone.NextAppointmentDate.Add(1)
	clone.NextAppointmentDate = &next
	if orig.NextAppointmentDate.Equal(next) {
		t.Error("Clone shares the next appointment pointer with the original")
	}
}
