// Utility to generate and validate API keys for the relay server.
//
// The key is signed with a salt. The salt must be present in the server
// config as `api_key_salt` for the server to accept the key.
package main

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
)

// Key layout:
// [1:SIGNATURE_VERSION][4:APP_ID][2:KEY_SEQUENCE][1:IS_ROOT][16:SIGNATURE]
const keyLength = 24

func main() {
	sequence := flag.Int("sequence", 1, "Sequential number of the API key.")
	isRoot := flag.Bool("isroot", false, "Whether the key grants root privileges.")
	salt := flag.String("salt", "auto", "Salt to sign the key with, base64-encoded; 'auto' to generate a random one.")
	apikey := flag.String("validate", "", "Validate the given key against the salt instead of generating one.")
	flag.Parse()

	var saltBytes []byte
	if *salt == "auto" {
		saltBytes = make([]byte, 32)
		if _, err := rand.Read(saltBytes); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to generate salt:", err)
			os.Exit(1)
		}
	} else {
		var err error
		saltBytes, err = base64.StdEncoding.DecodeString(*salt)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to decode salt:", err)
			os.Exit(1)
		}
	}

	if *apikey != "" {
		validate(*apikey, saltBytes)
		return
	}

	generate(uint16(*sequence), *isRoot, saltBytes)
}

func generate(sequence uint16, isRoot bool, salt []byte) {
	data := make([]byte, keyLength)
	data[0] = 1 // Signature version.
	if _, err := rand.Read(data[1:5]); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to generate app id:", err)
		os.Exit(1)
	}
	binary.LittleEndian.PutUint16(data[5:7], sequence)
	if isRoot {
		data[7] = 1
	}

	hasher := hmac.New(md5.New, salt)
	hasher.Write(data[:8])
	copy(data[8:], hasher.Sum(nil))

	fmt.Println("API key v1 seq", sequence, "isRoot =", isRoot)
	fmt.Println("Salt:", base64.StdEncoding.EncodeToString(salt))
	fmt.Println("Key:", base64.URLEncoding.EncodeToString(data))
}

func validate(apikey string, salt []byte) {
	if declen := base64.URLEncoding.DecodedLen(len(apikey)); declen != keyLength {
		fmt.Fprintln(os.Stderr, "Invalid key length")
		os.Exit(1)
	}

	data, err := base64.URLEncoding.DecodeString(apikey)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to decode key:", err)
		os.Exit(1)
	}

	if data[0] != 1 {
		fmt.Fprintln(os.Stderr, "Unknown signature version", data[0])
		os.Exit(1)
	}

	hasher := hmac.New(md5.New, salt)
	hasher.Write(data[:8])
	if !hmac.Equal(data[8:], hasher.Sum(nil)) {
		fmt.Fprintln(os.Stderr, "Invalid signature")
		os.Exit(1)
	}

	fmt.Println("Valid key v1 seq", binary.LittleEndian.Uint16(data[5:7]), "isRoot =", data[7] == 1)
}
