// Package server exposes the operator HTTP API.
//
// Operator actions are invoked as named services:
//
//	POST /api/services/refresh_bids        {"account": "main"}
//	POST /api/services/create_search       {"account": "main", "query": "leica m6"}
//	POST /api/services/update_search       {"search_id": "...", "max_price": "900"}
//
// Read endpoints return the last successful results of each poller, recent
// events and a websocket stream of live events.
package server
