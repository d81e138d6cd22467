package http

import (
	"fmt"
	"html"
)

//nolint:misspell // CSS properties use American spelling
func connectedPage(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>crmlink - HubSpot</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #F5F8FA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 12px;
            border: 1px solid #CBD6E2;
            box-shadow: 0 4px 24px rgba(0,0,0,0.06);
        }
        h1 {
            color: #33475B;
            margin: 0 0 8px 0;
            font-size: 24px;
            font-weight: 600;
        }
        p {
            color: #516F90;
            margin: 0;
            font-size: 16px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}
