package web

const formTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Audio extractor</title></head>
<body>
<h1>Extract audio from video</h1>
<form action="/extract" method="post" enctype="multipart/form-data">
  <p><input type="file" name="files" multiple accept=".mp4,.avi,.mkv,.mov,.wmv,.flv,.webm,.m4v"></p>
  <p>
    <label>Format
      <select name="format">
      {{- range .Formats}}
        <option value="{{.}}"{{if eq . $.Default}} selected{{end}}>{{.}}</option>
      {{- end}}
      </select>
    </label>
  </p>
  <p><label>File name prefix <input type="text" name="prefix" value="{{.Prefix}}"></label></p>
  <p><button type="submit">Extract</button></p>
</form>
</body>
</html>
`
