package orders

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListBatchFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_orders.csv", "")
	writeFile(t, dir, "a_orders.csv", "")
	writeFile(t, dir, "orders_template.csv", "")
	writeFile(t, dir, "ORDERS_TEMPLATE.CSV", "")
	writeFile(t, dir, "notes.txt", "")
	if err := os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListBatchFiles(dir)
	if err != nil {
		t.Fatalf("ListBatchFiles() error = %v", err)
	}

	want := []string{filepath.Join(dir, "a_orders.csv"), filepath.Join(dir, "b_orders.csv")}
	if len(files) != len(want) {
		t.Fatalf("got %d files %v, want %d", len(files), files, len(want))
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestReadBatchFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv",
		"order_number,shop_number,identifier,secure_id,cewe_order_id,output_path\n"+
			" 050842 ,541032,summer trip,ztvlyeq5,,\n"+
			"050999,541032,,,777777,/mnt/photos\n"+
			",541032,missing order,,,\n"+
			"050900,,missing shop,,,\n")

	records, err := ReadBatchFile(path)
	if err != nil {
		t.Fatalf("ReadBatchFile() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (invalid rows skipped)", len(records))
	}

	first := records[0]
	if first.OrderNumber != "050842" {
		t.Errorf("OrderNumber = %q, want trimmed %q", first.OrderNumber, "050842")
	}
	if first.SecureID != "ZTVLYEQ5" {
		t.Errorf("SecureID = %q, want upper-cased %q", first.SecureID, "ZTVLYEQ5")
	}
	if first.Identifier != "summer trip" {
		t.Errorf("Identifier = %q", first.Identifier)
	}

	second := records[1]
	if second.CeweOrderID != "777777" {
		t.Errorf("CeweOrderID = %q, want %q", second.CeweOrderID, "777777")
	}
	if second.OutputPath != "/mnt/photos" {
		t.Errorf("OutputPath = %q, want %q", second.OutputPath, "/mnt/photos")
	}
}

func TestReadBatchFileColumnOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv",
		"shop_number,order_number\n541032,050842\n")

	records, err := ReadBatchFile(path)
	if err != nil {
		t.Fatalf("ReadBatchFile() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].OrderNumber != "050842" || records[0].ShopNumber != "541032" {
		t.Errorf("record = %+v, columns mapped wrong", records[0])
	}
}

func TestReadBatchFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv", "")

	records, err := ReadBatchFile(path)
	if err != nil {
		t.Fatalf("ReadBatchFile() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from empty file, want 0", len(records))
	}
}
