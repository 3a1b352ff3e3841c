package web

import "html/template"

// Views are compiled once at startup. Layout fidelity is not a goal; the
// pages exist so staff can drive every portal operation from a browser.

const layoutTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{block "title" .}}Subscriber Portal{{end}}</title>
  <style>
    body { font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
           margin: 0; padding: 32px; color: #1a1f36; background: #f7f9fc; }
    .card { background: #fff; max-width: 860px; margin: 0 auto 16px; padding: 24px 32px;
            border-radius: 4px; box-shadow: 0 2px 5px rgba(0,0,0,0.06); }
    h1 { font-size: 20px; margin-top: 0; }
    table { border-collapse: collapse; width: 100%; }
    th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #e3e8ee; }
    th { font-size: 11px; text-transform: uppercase; color: #8792a2; }
    .flash-status { background: #e6f4ea; border: 1px solid #34a853; padding: 10px 14px;
                    border-radius: 4px; margin-bottom: 16px; }
    .flash-error { background: #fce8e6; border: 1px solid #ea4335; padding: 10px 14px;
                   border-radius: 4px; margin-bottom: 16px; }
    label { display: block; margin: 10px 0 4px; font-size: 13px; color: #3c4257; }
    input, select { padding: 6px 8px; border: 1px solid #c9d2dd; border-radius: 4px; width: 280px; }
    button { margin-top: 14px; padding: 8px 18px; border: 0; border-radius: 4px;
             background: #1a73e8; color: #fff; cursor: pointer; }
    nav a { margin-right: 16px; }
  </style>
</head>
<body>
  <div class="card">
    <nav>
      <a href="/">Find subscriber</a>
      <a href="/groups">Groups</a>
      <a href="/subscribers/csv">Download CSV</a>
    </nav>
  </div>
  <div class="card">
    {{if .Flash}}<div class="flash-{{.FlashKind}}">{{.Flash}}</div>{{end}}
    {{template "content" .}}
  </div>
</body>
</html>`

const lookupFormTemplate = `{{define "title"}}Find Subscriber{{end}}
{{define "content"}}
<h1>Find a subscriber</h1>
<form method="post" action="/get-subscriber">
  <label for="email">Email</label>
  <input type="email" id="email" name="email" required />
  <label for="country">Country</label>
  <select id="country" name="country">
    {{range .Countries}}<option value="{{.}}">{{.}}</option>{{end}}
  </select>
  <button type="submit">Search</button>
</form>
{{end}}`

const subscriberDetailsTemplate = `{{define "title"}}Subscriber Details{{end}}
{{define "content"}}
<h1>Subscriber details</h1>
<table>
  <tr><th>Email</th><td>{{.Subscriber.Email}}</td></tr>
  <tr><th>First name</th><td>{{orNA .Subscriber.FirstName}}</td></tr>
  <tr><th>Last name</th><td>{{orNA .Subscriber.LastName}}</td></tr>
  <tr><th>Start date</th><td>{{orNA .Subscriber.StartDate}}</td></tr>
  <tr><th>Last updated</th><td>{{orNA .Subscriber.LastUpdated}}</td></tr>
  <tr><th>Country</th><td>{{.Country}}</td></tr>
</table>

<h1>Update start date</h1>
<form method="post" action="/subscriber/update-start-date">
  <input type="hidden" name="email" value="{{.Subscriber.Email}}" />
  <input type="hidden" name="country" value="{{.Country}}" />
  <label for="start_date">New start date</label>
  <select id="start_date" name="start_date">
    {{range .Subscriber.PossibleStartDates}}<option value="{{.}}">{{.}}</option>{{end}}
  </select>
  <button type="submit">Update</button>
</form>
{{end}}`

const groupsTemplate = `{{define "title"}}Groups{{end}}
{{define "content"}}
<h1>Groups</h1>
<table>
  <tr><th>ID</th><th>Name</th><th>Members</th><th></th></tr>
  {{range .Groups}}
  <tr>
    <td>{{.ID}}</td>
    <td>{{.Name}}</td>
    <td>{{.MemberCount}}</td>
    <td>
      <a href="/groups/{{.ID}}/subscribers">subscribers</a>
      <a href="/groups/{{.ID}}/detailed-subscribers">detailed</a>
    </td>
  </tr>
  {{end}}
</table>

<h1>Add a subscriber</h1>
<form method="post" action="/subscribers">
  <label for="group_id">Group</label>
  <select id="group_id" name="group_id">
    {{range .Groups}}<option value="{{.ID}}">{{.Name}}</option>{{end}}
  </select>
  <label for="email">Email</label>
  <input type="email" id="email" name="email" required />
  <button type="submit">Add subscriber</button>
</form>
{{end}}`

const subscribersTemplate = `{{define "title"}}Subscribers{{end}}
{{define "content"}}
<h1>Subscribers</h1>
<table>
  <tr><th>Email</th><th>Updated</th></tr>
  {{range .Subscribers}}
  <tr><td>{{.Email}}</td><td>{{orNA .DateUpdated}}</td></tr>
  {{end}}
</table>
{{end}}`

const detailedSubscribersTemplate = `{{define "title"}}Detailed Subscribers{{end}}
{{define "content"}}
<h1>Detailed subscribers</h1>
<table>
  <tr><th>Email</th><th>First name</th><th>Last name</th><th>Start date</th><th>Updated</th></tr>
  {{range .Subscribers}}
  <tr>
    <td>{{.Email}}</td>
    <td>{{orNA .FirstName}}</td>
    <td>{{orNA .LastName}}</td>
    <td>{{orNA .StartDate}}</td>
    <td>{{orNA .LastUpdated}}</td>
  </tr>
  {{end}}
</table>
{{end}}`

var funcMap = template.FuncMap{
	"orNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
}

func parseTemplates() map[string]*template.Template {
	pages := map[string]string{
		"lookupForm":          lookupFormTemplate,
		"subscriberDetails":   subscriberDetailsTemplate,
		"groups":              groupsTemplate,
		"subscribers":         subscribersTemplate,
		"detailedSubscribers": detailedSubscribersTemplate,
	}

	views := make(map[string]*template.Template, len(pages))
	for name, page := range pages {
		t := template.Must(template.New("layout").Funcs(funcMap).Parse(layoutTemplate))
		views[name] = template.Must(t.Parse(page))
	}
	return views
}
