package notion

import "context"

// QueryAllPages follows next_cursor until the result set is exhausted and
// returns every result. The request's StartCursor is used for the first call.
func QueryAllPages(ctx context.Context, api API, req QueryDatabaseRequest) ([]Object, error) {
	var all []Object
	for {
		resp, err := api.QueryDatabase(ctx, &req)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)
		cursor := resp.Cursor()
		if !resp.HasMore || cursor == "" {
			return all, nil
		}
		req.StartCursor = cursor
	}
}

// SearchDatabases pages through search restricted to databases and returns
// every database shared with the integration.
func SearchDatabases(ctx context.Context, api API) ([]Object, error) {
	req := SearchRequest{
		Filter:   &SearchFilter{Property: "object", Value: ObjectDatabase},
		Sort:     &SearchSort{Direction: Descending, Timestamp: "last_edited_time"},
		PageSize: MaxPageSize,
	}
	var all []Object
	for {
		resp, err := api.Search(ctx, &req)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)
		cursor := resp.Cursor()
		if !resp.HasMore || cursor == "" {
			return all, nil
		}
		req.StartCursor = cursor
	}
}
