// Package middleware groups the Fiber handlers that run in front of the features.
//
//   - rayid: tags each request with an X-Ray-ID, reusing the client's when sent.
//   - auth: checks the X-API-Key header; some path prefixes stay public.
//   - metrics: Prometheus response time and in-flight gauges plus /metrics.
//   - upload: buffers multipart parts in memory, enforcing a MIME allow-list,
//     a size ceiling and a part count.
//
// rayid, auth and metrics are mounted globally in cmd/start.go; upload is
// mounted per route by the objects feature.
package middleware
