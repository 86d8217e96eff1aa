// Package server exposes contribution summaries over HTTP.
//
// GET / answers with a readiness line and GET /:username with the 30-day
// summary as plain text, or JSON when ?format=json is given. A failed upstream
// fetch is answered with 404 and a JSON detail message naming the user.
package server
