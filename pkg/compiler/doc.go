// Package compiler binds a DOM template to reactive data.
//
// Compile walks the mounted subtree once. Every binding it finds gets a
// first paint and exactly one reactive.Watcher, so later writes to the
// bound key update only the nodes that read it:
//
//	<p>{{ msg }}</p>                  text interpolation
//	<p v-text="msg"></p>              textContent
//	<div v-html="raw"></div>          innerHTML
//	<input v-model="name">            value + input listener
//	<a :href="url">                   attribute (also v-bind:href)
//	<button @click="add">             method listener (also v-on:click)
//
// Expressions are bare data keys. Unknown directives and missing methods
// are skipped and logged at debug level.
package compiler
