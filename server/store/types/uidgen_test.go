package types

import (
	"encoding/base64"
	"testing"
)

func TestUidGeneratorInit(t *testing.T) {
	ug := &UidGenerator{}
	key := []byte("testkey1testkey2") // 16 bytes for XTEA

	err := ug.Init(1, key)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if ug.seq == nil {
		t.Error("Snowflake generator should be initialized")
	}
	if ug.cipher == nil {
		t.Error("Cipher should be initialized")
	}

	// Already initialized generator must not reinitialize.
	oldSeq := ug.seq
	oldCipher := ug.cipher
	err = ug.Init(3, key)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ug.seq != oldSeq {
		t.Error("Snowflake generator should not be reinitialized")
	}
	if ug.cipher != oldCipher {
		t.Error("Cipher should not be reinitialized")
	}
}

func TestUidGeneratorInitKeyValidation(t *testing.T) {
	testCases := []struct {
		name string
		key  []byte
	}{
		{"nil key", nil},
		{"empty key", []byte{}},
		{"too short key", []byte("short")},
		{"15 byte key", []byte("testkey1testkey")},
		{"17 byte key", []byte("testkey1testkey22")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ug := &UidGenerator{}
			err := ug.Init(1, tc.key)
			if err == nil {
				t.Errorf("Expected error for %s, but got none", tc.name)
			}
		})
	}
}

func TestUidGeneratorGetStr(t *testing.T) {
	ug := &UidGenerator{}
	key := []byte("testkey1testkey2")
	if err := ug.Init(1, key); err != nil {
		t.Fatalf("Failed to initialize generator: %v", err)
	}

	uidStr1 := ug.GetStr()
	if uidStr1 == "" {
		t.Error("Generated id should not be empty")
	}
	uidStr2 := ug.GetStr()
	if uidStr1 == uidStr2 {
		t.Error("Generated ids should be unique")
	}

	// Generated id must decode to 8 bytes of unpadded base64.
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(uidStr1)
	if err != nil {
		t.Errorf("Generated id should be valid base64: %v", err)
	}
	if len(decoded) != 8 {
		t.Errorf("Decoded id should be 8 bytes, got %d", len(decoded))
	}

	// Uniqueness over a larger batch.
	ids := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := ug.GetStr()
		if id == "" {
			t.Errorf("Id %d should not be empty", i)
		}
		if ids[id] {
			t.Errorf("Duplicate id generated: %v", id)
		}
		ids[id] = true
	}
}

func TestUidGeneratorGetStrUninitialized(t *testing.T) {
	ug := &UidGenerator{}

	if id := ug.GetStr(); id != "" {
		t.Error("Expected empty string from uninitialized generator")
	}
}

func BenchmarkUidGeneratorGetStr(b *testing.B) {
	ug := &UidGenerator{}
	key := []byte("testkey1testkey2")
	if err := ug.Init(1, key); err != nil {
		b.Fatalf("Failed to initialize generator: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ug.GetStr()
	}
}
