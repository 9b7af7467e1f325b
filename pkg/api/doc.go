// Package api exposes the file service over HTTP.
//
// Routes:
//
//	GET  /status                 dependency health
//	POST /files                  create a folder, file or image
//	GET  /files                  list own nodes (?parentId=&page=)
//	GET  /files/{id}             show an own node
//	PUT  /files/{id}/publish     make a node public
//	PUT  /files/{id}/unpublish   make a node private
//	GET  /files/{id}/data        read content (?size= for image derivatives)
//
// Every route except /status and /files/{id}/data requires the X-Token
// session header. Content of public nodes is readable anonymously.
// Errors are returned as {"error": "<message>"}.
package api
