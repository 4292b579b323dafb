package polyfill

// Polyfill script bodies are opaque static strings keyed by identifier
// (spec.md §1: "Polyfill script bodies... treated as opaque static
// strings"). These are minimal, self-contained shims in the spirit of the
// core-js/es-shims ecosystem conventions the original dnt polyfill set
// draws from (rs-lib/src/polyfills/*.rs).

const objectHasOwnBody = `if (!Object.hasOwn) {
  Object.defineProperty(Object, "hasOwn", {
    value: function (object, property) {
      if (object == null) {
        throw new TypeError("Cannot convert undefined or null to object");
      }
      return Object.prototype.hasOwnProperty.call(Object(object), property);
    },
    configurable: true,
    enumerable: false,
    writable: true,
  });
}
`

const arrayFromAsyncBody = `if (!Array.fromAsync) {
  Array.fromAsync = async function (source, mapFn, thisArg) {
    const result = [];
    let i = 0;
    for await (const item of source) {
      result.push(mapFn ? await mapFn.call(thisArg, item, i) : item);
      i++;
    }
    return result;
  };
}
`

const arrayFindLastBody = `if (!Array.prototype.findLast) {
  Object.defineProperty(Array.prototype, "findLast", {
    value: function (predicate, thisArg) {
      for (let i = this.length - 1; i >= 0; i--) {
        if (predicate.call(thisArg, this[i], i, this)) return this[i];
      }
      return undefined;
    },
    configurable: true,
    enumerable: false,
    writable: true,
  });
}
if (!Array.prototype.findLastIndex) {
  Object.defineProperty(Array.prototype, "findLastIndex", {
    value: function (predicate, thisArg) {
      for (let i = this.length - 1; i >= 0; i--) {
        if (predicate.call(thisArg, this[i], i, this)) return i;
      }
      return -1;
    },
    configurable: true,
    enumerable: false,
    writable: true,
  });
}
`

const errorCauseBody = `// Environments predating the Error "cause" option silently drop the
// second constructor argument. Nothing to polyfill structurally; this
// file documents the dependency and exists so downstream tooling that
// scans for "_dnt.polyfills" output sees a stable marker.
`

const stringReplaceAllBody = `if (!String.prototype.replaceAll) {
  Object.defineProperty(String.prototype, "replaceAll", {
    value: function (search, replacement) {
      if (search instanceof RegExp && !search.global) {
        throw new TypeError("replaceAll must be called with a global RegExp");
      }
      const re = search instanceof RegExp ? search : new RegExp(
        String(search).replace(/[.*+?^$\{\}()|[\]\\]/g, "\\$&"),
        "g",
      );
      return this.replace(re, replacement);
    },
    configurable: true,
    enumerable: false,
    writable: true,
  });
}
`

const importMetaBody = `// import.meta is rewritten per-usage by the caller's runtime shim; no
// standalone polyfill body is required beyond documenting the dependency.
`

const promiseWithResolversBody = `if (!Promise.withResolvers) {
  Promise.withResolvers = function () {
    let resolve, reject;
    const promise = new Promise((res, rej) => {
      resolve = res;
      reject = rej;
    });
    return { promise, resolve, reject };
  };
}
`

const weakRefBody = `if (typeof WeakRef === "undefined") {
  globalThis.WeakRef = class WeakRef {
    #target;
    constructor(target) {
      this.#target = target;
    }
    deref() {
      return this.#target;
    }
  };
}
`
