package preview

import "html/template"

type pageData struct {
	Lang    string
	Heading string
	Project string
	Empty   string
	Edited  string
	Slides  []slideView
}

var pageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Heading}} · {{.Project}}</title>
<style>
body { font-family: system-ui, sans-serif; background: #f3f4f6; color: #004F59; margin: 0; padding: 2rem; }
section { background: #fff; border-radius: 8px; padding: 1.5rem 2rem; margin: 0 auto 1.5rem; max-width: 56rem; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
h1 { max-width: 56rem; margin: 0 auto 1.5rem; }
h2 { margin-top: 0; }
pre { white-space: pre-wrap; font-family: inherit; color: #1f2937; }
.edited { font-size: .8rem; color: #6b7280; }
</style>
</head>
<body>
<h1>{{.Heading}} · {{.Project}}</h1>
{{- if not .Slides}}
<section><p>{{.Empty}}</p></section>
{{- end}}
{{- range .Slides}}
<section id="{{.Slide}}">
<h2>{{.Title}}</h2>
{{- if .Edited}}<p class="edited">{{$.Edited}}</p>{{end}}
<pre>{{.Content}}</pre>
</section>
{{- end}}
</body>
</html>
`))
