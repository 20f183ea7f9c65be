package render

const fragments = `
{{- define "rows" -}}
{{- range .Products -}}
<tr{{if and $.Editing (eq .ID $.EditID)}} class="edit-row"{{end}}>
<td>{{.ID}}</td>
<td>{{.Nombre}}</td>
<td>${{.Precio}}</td>
<td>{{.Stock}}</td>
<td>
<form method="get" action="/" style="display:inline">
<input type="hidden" name="edit" value="{{.ID}}">
<button type="submit">Editar</button>
</form>
<form method="post" action="/" style="display:inline" onsubmit="return confirm('¿Eliminar producto?')">
<input type="hidden" name="action" value="delete">
<input type="hidden" name="id" value="{{.ID}}">
<button type="submit">Eliminar</button>
</form>
</td>
</tr>
{{end -}}
{{- end -}}

{{- define "edit-form" -}}
<h2>Editar producto</h2>
<form method="post" action="/">
<input type="hidden" name="action" value="edit">
<input type="hidden" name="id" value="{{.ID}}">
<label>Nombre: <input name="nombre" value="{{.Nombre}}" required></label><br>
<label>Precio: <input name="precio" type="number" step="0.01" min="0" value="{{.Precio}}" required></label><br>
<label>Stock: <input name="stock" type="number" min="0" value="{{.Stock}}" required></label><br>
<button type="submit">Guardar</button>
<a href="/" class="cancelar">Cancelar</a>
</form>
{{- end -}}

{{- define "add-form" -}}
<h2>Agregar producto</h2>
<form method="post" action="/">
<input type="hidden" name="action" value="add">
<label>Nombre: <input name="nombre" required></label><br>
<label>Precio: <input name="precio" type="number" step="0.01" min="0" required></label><br>
<label>Stock: <input name="stock" type="number" min="0" required></label><br>
<button type="submit">Agregar</button>
</form>
{{- end -}}
`
