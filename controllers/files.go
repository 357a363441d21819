package controllers

import "os"

// uploadPath is where uploaded files land; only the stored reference is
// recorded, the editorial core never reads the bytes back.
func uploadPath() string {
	path := os.Getenv("UPLOAD_PATH")
	if path == "" {
		path = "./uploads"
	}
	return path
}
