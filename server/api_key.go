/******************************************************************************
 *
 *  Description :
 *
 *    Authentication of API clients. API keys are generated by the
 *    keygen utility and signed with the server's salt.
 *
 *****************************************************************************/

package main

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/base64"
	"net/http"
)

// checkAPIKey verifies the key received from an API client.
//
// Key layout, 24 bytes:
//
//	[1:SIGNATURE_VERSION][4:APP_ID][2:KEY_SEQUENCE][1:IS_ROOT][16:SIGNATURE]
//
// SIGNATURE_VERSION: version of the key, currently 1.
// APP_ID: deprecated, kept for compatibility.
// KEY_SEQUENCE: serial number of the key.
// IS_ROOT: authentication level of the key.
// SIGNATURE: HMAC-MD5 of the preceding 8 bytes keyed with the salt.
func checkAPIKey(apikey string) (isValid, isRoot bool) {
	if declen := base64.URLEncoding.DecodedLen(len(apikey)); declen != 24 {
		return
	}

	data, err := base64.URLEncoding.DecodeString(apikey)
	if err != nil {
		return
	}

	if data[0] != 1 {
		// Unknown signature version.
		return
	}

	hasher := hmac.New(md5.New, globals.apiKeySalt)
	hasher.Write(data[:8])
	if !hmac.Equal(data[8:], hasher.Sum(nil)) {
		return
	}

	isRoot = data[7] == 1
	isValid = true
	return
}

// getAPIKey extracts the API key from the request, trying the header,
// the URL query and the cookie in that order.
func getAPIKey(req *http.Request) string {
	// Check header.
	apikey := req.Header.Get("X-ZeeU-APIKey")

	// Check URL query parameters.
	if apikey == "" {
		apikey = req.URL.Query().Get("apikey")
	}

	// Check cookie.
	if apikey == "" {
		if c, err := req.Cookie("apikey"); err == nil {
			apikey = c.Value
		}
	}

	return apikey
}
