package importer

import "strings"

// Alias de encabezados aceptados por campo lógico. Los consolidados reales
// de Sofia Plus y los formatos de los instructores usan estas variantes.
var (
	ColsDocumento = []string{"documento", "cedula", "identificacion", "identificación", "doc", "num_identificacion"}
	ColsFicha     = []string{"ficha", "numero ficha", "numero_ficha", "numero", "ficha_numero", "número ficha"}
	ColsFecha     = []string{"fecha", "fecha inasistencia", "fecha_inasistencia", "fecha de inasistencia", "fecha_asistencia"}
	ColsMotivo    = []string{"motivo", "observacion", "razon", "justificacion", "razón"}
	ColsJustif    = []string{"justificada", "justificado"}

	ColsCompetencia = []string{"competencia", "codigo competencia", "cod_comp", "cod_competencia", "competencia_codigo"}
	ColsResultado   = []string{"resultado", "resultado aprendizaje", "ra", "codigo resultado", "resultado_codigo", "resultado_aprendizaje", "codigo_ra"}
	ColsEstado      = []string{"estado", "juicio", "juicio evaluativo", "aprobado", "estado resultado", "resultado", "calificacion"}

	ColsNombre       = []string{"nombre", "nombres"}
	ColsApellido     = []string{"apellido", "apellidos"}
	ColsEmail        = []string{"email", "correo", "mail"}
	ColsTelefono     = []string{"telefono", "tel", "celular"}
	ColsEstadoAprend = []string{"estado", "estado_formacion"}
)

// ResolveColumn busca en headers el primer alias de candidates que tenga
// coincidencia exacta (sin distinguir mayúsculas). Gana el primer alias con
// coincidencia, no el primer encabezado; con encabezados duplicados se toma
// la primera aparición. Devuelve el nombre tal como viene en el archivo.
func ResolveColumn(headers []string, candidates []string) (string, bool) {
	lower := make(map[string]string, len(headers))
	for _, h := range headers {
		k := strings.ToLower(strings.TrimSpace(h))
		if _, dup := lower[k]; !dup {
			lower[k] = h
		}
	}
	for _, c := range candidates {
		if h, ok := lower[strings.ToLower(c)]; ok {
			return h, true
		}
	}
	return "", false
}
