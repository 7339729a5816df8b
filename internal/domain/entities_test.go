package domain

import "testing"

func TestKeys(t *testing.T) {
	if got := PartitionPrefix("2024-03-08"); got != "telegram/context_date=2024-03-08" {
		t.Fatalf("неожиданный префикс: %s", got)
	}
	if got := EnrichedKey("2024-03-08", "20240309223000123456"); got != "telegram/context_date=2024-03-08/20240309223000123456.parquet" {
		t.Fatalf("неожиданный ключ: %s", got)
	}
	if got := (ObjectInfo{Key: "telegram/context_date=2024-03-08/abc.json"}).BaseName(); got != "abc.json" {
		t.Fatalf("неожиданное имя: %s", got)
	}
}

func TestResultOK(t *testing.T) {
	if !(CompactionResult{Status: CompactionSucceeded}).OK() {
		t.Fatalf("успешный запуск должен давать true")
	}
	if (CompactionResult{Status: CompactionEmpty}).OK() {
		t.Fatalf("пустой день должен давать false")
	}
	if Failed("r", "d", ErrNoObjects).OK() {
		t.Fatalf("ошибка должна давать false")
	}
}
