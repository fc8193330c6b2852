// Package objects exposes the upload agent over HTTP.
//
// # Routes
//
//   - POST   /objects/:bucket          multipart upload, field "file"
//   - POST   /objects/:bucket/batch    multipart upload, field "files"
//   - PUT    /objects/:bucket/raw      raw body, content type sniffed
//   - GET    /objects/:bucket/url      signed read URL (?key=&expires=)
//   - DELETE /objects/:bucket          delete (?key=)
//   - GET    /objects/:bucket          ledger listing (?limit=&offset=)
//
// Uploads accept folder, private and optimize as form fields or query
// parameters. Errors are JSON {"error": "..."}: an unknown bucket is 404,
// validation failures are 400 and storage provider failures are 502.
// Rejections from the upload middleware keep their own status (413, 415).
//
// When a database is configured every upload is recorded in the ledger
// through an agent hook and deletes forget their entry. Without one the
// listing answers 503.
package objects
